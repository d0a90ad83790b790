package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// UserRepository implementa repositories.UserRepository em memória
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.conflictLocked(user) {
		return repositories.ErrDuplicate
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) conflictLocked(user *entities.User) bool {
	for id, u := range r.store.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.Username, user.Username) {
			return true
		}
		if u.Email != nil && user.Email != nil && u.Email.String() == user.Email.String() {
			return true
		}
		if u.PhoneNumber != nil && user.PhoneNumber != nil && u.PhoneNumber.String() == user.PhoneNumber.String() {
			return true
		}
	}
	return false
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindByIDForUpdate equivale a FindByID; as transações já são serializadas
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*entities.User, error) {
	return r.FindByID(ctx, id)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.findFirst(func(u entities.User) bool {
		return u.Email != nil && strings.EqualFold(u.Email.String(), email)
	}), nil
}

func (r *UserRepository) FindByPhone(_ context.Context, phone string) (*entities.User, error) {
	return r.findFirst(func(u entities.User) bool {
		return u.PhoneNumber != nil && u.PhoneNumber.String() == phone
	}), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.findFirst(func(u entities.User) bool {
		return strings.EqualFold(u.Username, username)
	}), nil
}

func (r *UserRepository) findFirst(match func(entities.User) bool) *entities.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *UserRepository) UsernameTaken(_ context.Context, username, exceptUserID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for id, u := range r.store.users {
		if id != exceptUserID && strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) Update(_ context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return nil
	}
	if r.conflictLocked(user) {
		return repositories.ErrDuplicate
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil
	}
	u.LastLoginAt = &at
	r.store.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.deleteUserLocked(id)
	return nil
}

// VerificationCodeRepository implementa repositories.VerificationCodeRepository
// em memória; o lock de linha é substituído pela serialização das transações
type VerificationCodeRepository struct {
	store *Store
}

func (r *VerificationCodeRepository) FindByUserIDForUpdate(_ context.Context, userID string) (*entities.VerificationCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.codes[userID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *VerificationCodeRepository) FindActiveMatch(_ context.Context, userID, code string, now time.Time) (*entities.VerificationCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.codes[userID]
	if !ok || !c.Matches(code, now) {
		return nil, nil
	}
	return &c, nil
}

func (r *VerificationCodeRepository) Upsert(_ context.Context, code *entities.VerificationCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.codes[code.UserID]; ok {
		existing.Code = code.Code
		existing.Channel = code.Channel
		existing.ExpirationTime = code.ExpirationTime
		existing.Confirmed = code.Confirmed
		existing.UpdatedAt = time.Now().UTC()
		r.store.codes[code.UserID] = existing
		return nil
	}
	r.store.codes[code.UserID] = *code
	return nil
}

func (r *VerificationCodeRepository) MarkConfirmed(_ context.Context, codeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for userID, c := range r.store.codes {
		if c.ID == codeID {
			c.Confirmed = true
			c.UpdatedAt = time.Now().UTC()
			r.store.codes[userID] = c
			return nil
		}
	}
	return nil
}

// PostRepository implementa repositories.PostRepository em memória
type PostRepository struct {
	store *Store
}

func (r *PostRepository) Create(_ context.Context, post *entities.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := *post
	stored.Author = nil
	r.store.posts[post.ID] = stored
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*entities.Post, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.posts[id]
	if !ok {
		return nil, nil
	}
	return r.withAuthorLocked(p), nil
}

func (r *PostRepository) withAuthorLocked(p entities.Post) *entities.Post {
	if u, ok := r.store.users[p.AuthorID]; ok {
		p.Author = &u
	}
	return &p
}

func (r *PostRepository) Update(_ context.Context, post *entities.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.posts[post.ID]
	if !ok {
		return nil
	}
	p.Caption = post.Caption
	p.UpdatedAt = time.Now().UTC()
	r.store.posts[post.ID] = p
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.deletePostLocked(id)
	return nil
}

func (r *PostRepository) List(_ context.Context, filters repositories.PostFilters) ([]*entities.Post, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := make([]entities.Post, 0, len(r.store.posts))
	for _, p := range r.store.posts {
		if filters.AuthorID != nil && p.AuthorID != *filters.AuthorID {
			continue
		}
		all = append(all, p)
	}
	slices.SortFunc(all, func(a, b entities.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	window := paginate(all, filters.Page)
	posts := make([]*entities.Post, len(window))
	for i, p := range window {
		posts[i] = r.withAuthorLocked(p)
	}
	return posts, int64(len(all)), nil
}

func (r *PostRepository) Stats(_ context.Context, postIDs []string, viewerID string) (map[string]entities.PostStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make(map[string]entities.PostStats, len(postIDs))
	for _, id := range postIDs {
		var stats entities.PostStats
		for _, l := range r.store.likes {
			if l.TargetKind == entities.ResourcePost && l.TargetID == id {
				stats.Likes++
				if viewerID != "" && l.AuthorID == viewerID {
					stats.MeLike = true
				}
			}
		}
		for _, c := range r.store.comments {
			if c.PostID == id {
				stats.Comments++
			}
		}
		for _, c := range r.store.collections {
			if slices.Contains(c.PostIDs, id) {
				stats.Saves++
			}
		}
		result[id] = stats
	}
	return result, nil
}

// CommentRepository implementa repositories.CommentRepository em memória
type CommentRepository struct {
	store *Store
}

func (r *CommentRepository) Create(_ context.Context, comment *entities.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := *comment
	stored.Author = nil
	r.store.comments[comment.ID] = stored
	return nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*entities.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.comments[id]
	if !ok {
		return nil, nil
	}
	return r.withAuthorLocked(c), nil
}

func (r *CommentRepository) withAuthorLocked(c entities.Comment) *entities.Comment {
	if u, ok := r.store.users[c.AuthorID]; ok {
		c.Author = &u
	}
	return &c
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.deleteCommentLocked(id)
	return nil
}

func (r *CommentRepository) ListTopLevel(_ context.Context, postID string, page repositories.Page) ([]*entities.Comment, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	top := r.collectLocked(func(c entities.Comment) bool {
		return c.PostID == postID && c.ParentID == nil
	})

	window := paginate(top, page)
	comments := make([]*entities.Comment, len(window))
	for i, c := range window {
		comments[i] = r.withAuthorLocked(c)
	}
	return comments, int64(len(top)), nil
}

func (r *CommentRepository) ListByParents(_ context.Context, parentIDs []string) ([]*entities.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	children := r.collectLocked(func(c entities.Comment) bool {
		return c.ParentID != nil && slices.Contains(parentIDs, *c.ParentID)
	})

	comments := make([]*entities.Comment, len(children))
	for i, c := range children {
		comments[i] = r.withAuthorLocked(c)
	}
	return comments, nil
}

func (r *CommentRepository) collectLocked(match func(entities.Comment) bool) []entities.Comment {
	var out []entities.Comment
	for _, c := range r.store.comments {
		if match(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b entities.Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func (r *CommentRepository) Stats(_ context.Context, commentIDs []string, viewerID string) (map[string]entities.CommentStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make(map[string]entities.CommentStats, len(commentIDs))
	for _, id := range commentIDs {
		var stats entities.CommentStats
		for _, l := range r.store.likes {
			if l.TargetKind == entities.ResourceComment && l.TargetID == id {
				stats.Likes++
				if viewerID != "" && l.AuthorID == viewerID {
					stats.MeLike = true
				}
			}
		}
		result[id] = stats
	}
	return result, nil
}

// LikeRepository implementa repositories.LikeRepository em memória
type LikeRepository struct {
	store *Store
}

func (r *LikeRepository) Find(_ context.Context, authorID, targetID string, kind entities.ResourceKind) (*entities.Like, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, l := range r.store.likes {
		if l.AuthorID == authorID && l.TargetID == targetID && l.TargetKind == kind {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *LikeRepository) Create(_ context.Context, like *entities.Like) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, l := range r.store.likes {
		if l.AuthorID == like.AuthorID && l.TargetID == like.TargetID && l.TargetKind == like.TargetKind {
			return repositories.ErrDuplicate
		}
	}
	stored := *like
	stored.Author = nil
	r.store.likes[like.ID] = stored
	return nil
}

func (r *LikeRepository) Delete(_ context.Context, like *entities.Like) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.likes, like.ID)
	return nil
}

func (r *LikeRepository) ListByTarget(_ context.Context, targetID string, kind entities.ResourceKind, page repositories.Page) ([]*entities.Like, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var all []entities.Like
	for _, l := range r.store.likes {
		if l.TargetID == targetID && l.TargetKind == kind {
			all = append(all, l)
		}
	}
	slices.SortFunc(all, func(a, b entities.Like) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	window := paginate(all, page)
	likes := make([]*entities.Like, len(window))
	for i, l := range window {
		if u, ok := r.store.users[l.AuthorID]; ok {
			l.Author = &u
		}
		likes[i] = &l
	}
	return likes, int64(len(all)), nil
}

// SavedCollectionRepository implementa repositories.SavedCollectionRepository em memória
type SavedCollectionRepository struct {
	store *Store
}

func (r *SavedCollectionRepository) FindByName(_ context.Context, userID, name string) (*entities.SavedCollection, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.collections {
		if c.UserID == userID && c.Name == name {
			c.PostIDs = slices.Clone(c.PostIDs)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *SavedCollectionRepository) Create(_ context.Context, collection *entities.SavedCollection) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.collections {
		if c.UserID == collection.UserID && c.Name == collection.Name {
			return repositories.ErrDuplicate
		}
	}
	stored := *collection
	stored.PostIDs = slices.Clone(collection.PostIDs)
	r.store.collections[collection.ID] = stored
	return nil
}

func (r *SavedCollectionRepository) AddPost(_ context.Context, collectionID, postID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.collections[collectionID]
	if !ok || slices.Contains(c.PostIDs, postID) {
		return nil
	}
	c.PostIDs = append([]string{postID}, c.PostIDs...)
	c.UpdatedAt = time.Now().UTC()
	r.store.collections[collectionID] = c
	return nil
}

func (r *SavedCollectionRepository) RemovePost(_ context.Context, collectionID, postID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.collections[collectionID]
	if !ok {
		return nil
	}
	c.PostIDs = slices.DeleteFunc(slices.Clone(c.PostIDs), func(p string) bool { return p == postID })
	c.UpdatedAt = time.Now().UTC()
	r.store.collections[collectionID] = c
	return nil
}

func (r *SavedCollectionRepository) ListByUser(_ context.Context, userID string) ([]*entities.SavedCollection, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entities.SavedCollection
	for _, c := range r.store.collections {
		if c.UserID == userID {
			c.PostIDs = slices.Clone(c.PostIDs)
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *entities.SavedCollection) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func paginate[T any](items []T, page repositories.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}
