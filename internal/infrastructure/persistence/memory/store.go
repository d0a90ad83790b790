// Package memory guarda todos os dados em mapas protegidos por mutex.
// Usado em testes e com DB_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
)

type contextKey string

const txKey contextKey = "memory_tx"

// Store é o estado compartilhado pelos repositórios em memória
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[string]entities.User
	codes       map[string]entities.VerificationCode // user_id -> código
	posts       map[string]entities.Post
	comments    map[string]entities.Comment
	likes       map[string]entities.Like
	collections map[string]entities.SavedCollection
}

// NewStore cria um Store vazio
func NewStore() *Store {
	return &Store{
		users:       make(map[string]entities.User),
		codes:       make(map[string]entities.VerificationCode),
		posts:       make(map[string]entities.Post),
		comments:    make(map[string]entities.Comment),
		likes:       make(map[string]entities.Like),
		collections: make(map[string]entities.SavedCollection),
	}
}

type snapshot struct {
	users       map[string]entities.User
	codes       map[string]entities.VerificationCode
	posts       map[string]entities.Post
	comments    map[string]entities.Comment
	likes       map[string]entities.Like
	collections map[string]entities.SavedCollection
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collections := make(map[string]entities.SavedCollection, len(s.collections))
	for id, c := range s.collections {
		c.PostIDs = slices.Clone(c.PostIDs)
		collections[id] = c
	}

	return snapshot{
		users:       maps.Clone(s.users),
		codes:       maps.Clone(s.codes),
		posts:       maps.Clone(s.posts),
		comments:    maps.Clone(s.comments),
		likes:       maps.Clone(s.likes),
		collections: collections,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.codes = snap.codes
	s.posts = snap.posts
	s.comments = snap.comments
	s.likes = snap.likes
	s.collections = snap.collections
}

// UnitOfWork serializa transações e desfaz as escritas em caso de erro
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork cria um UnitOfWork sobre o Store
func NewUnitOfWork(store *Store) ports.UnitOfWork {
	return &UnitOfWork{store: store}
}

type memoryTx struct {
	snap snapshot
	done bool
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.store.txMu.Lock()
	return context.WithValue(ctx, txKey, &memoryTx{snap: u.store.snapshot()}), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*memoryTx)
	if !ok || tx.done {
		return nil
	}
	tx.done = true
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*memoryTx)
	if !ok || tx.done {
		return nil
	}
	u.store.restore(tx.snap)
	tx.done = true
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*memoryTx); ok {
		return fn(ctx)
	}

	txCtx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// Rollback é no-op depois do Commit; cobre erro e panic
	defer func() { _ = u.Rollback(txCtx) }()

	if err := fn(txCtx); err != nil {
		return err
	}
	return u.Commit(txCtx)
}

// Repositories devolve todos os repositórios ligados a este Store
func (s *Store) Repositories() Repositories {
	return Repositories{
		Users:       &UserRepository{store: s},
		Codes:       &VerificationCodeRepository{store: s},
		Posts:       &PostRepository{store: s},
		Comments:    &CommentRepository{store: s},
		Likes:       &LikeRepository{store: s},
		Collections: &SavedCollectionRepository{store: s},
	}
}

// Repositories agrupa as implementações em memória
type Repositories struct {
	Users       *UserRepository
	Codes       *VerificationCodeRepository
	Posts       *PostRepository
	Comments    *CommentRepository
	Likes       *LikeRepository
	Collections *SavedCollectionRepository
}

// deleteUserLocked remove o usuário e tudo o que ele possui. Exige s.mu.
func (s *Store) deleteUserLocked(id string) {
	delete(s.users, id)
	delete(s.codes, id)

	for postID, p := range s.posts {
		if p.AuthorID == id {
			s.deletePostLocked(postID)
		}
	}
	for commentID, c := range s.comments {
		if c.AuthorID == id {
			s.deleteCommentLocked(commentID)
		}
	}
	for likeID, l := range s.likes {
		if l.AuthorID == id {
			delete(s.likes, likeID)
		}
	}
	for collectionID, c := range s.collections {
		if c.UserID == id {
			delete(s.collections, collectionID)
		}
	}
}

func (s *Store) deletePostLocked(id string) {
	delete(s.posts, id)

	for commentID, c := range s.comments {
		if c.PostID == id {
			s.deleteCommentLocked(commentID)
		}
	}
	s.deleteLikesLocked(id, entities.ResourcePost)

	for collectionID, c := range s.collections {
		if slices.Contains(c.PostIDs, id) {
			c.PostIDs = slices.DeleteFunc(slices.Clone(c.PostIDs), func(p string) bool { return p == id })
			s.collections[collectionID] = c
		}
	}
}

// deleteCommentLocked remove o comentário e suas respostas sem recursão
func (s *Store) deleteCommentLocked(id string) {
	pending := []string{id}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if _, ok := s.comments[current]; !ok {
			continue
		}
		delete(s.comments, current)
		s.deleteLikesLocked(current, entities.ResourceComment)

		for childID, c := range s.comments {
			if c.ParentID != nil && *c.ParentID == current {
				pending = append(pending, childID)
			}
		}
	}
}

func (s *Store) deleteLikesLocked(targetID string, kind entities.ResourceKind) {
	for likeID, l := range s.likes {
		if l.TargetID == targetID && l.TargetKind == kind {
			delete(s.likes, likeID)
		}
	}
}
