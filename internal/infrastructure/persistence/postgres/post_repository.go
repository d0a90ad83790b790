package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// PostRepository implementa repositories.PostRepository
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository cria um novo PostRepository
func NewPostRepository(db *gorm.DB) repositories.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	db := getDB(ctx, r.db)
	return db.Omit(clause.Associations).Create(postToModel(post)).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	var model PostModel

	db := getDB(ctx, r.db)
	if err := db.Preload("Author").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return postToEntity(&model)
}

func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	db := getDB(ctx, r.db)
	return db.Model(&PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{"caption": post.Caption, "updated_at": time.Now().UTC()}).Error
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	return db.Where("id = ?", id).Delete(&PostModel{}).Error
}

func (r *PostRepository) List(ctx context.Context, filters repositories.PostFilters) ([]*entities.Post, int64, error) {
	var models []*PostModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&PostModel{})

	// Aplicar filtros
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Paginação
	page := filters.Page.Normalize()
	err := query.Session(&gorm.Session{}).Preload("Author").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*entities.Post, 0, len(models))
	for _, model := range models {
		post, err := postToEntity(model)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, nil
}

func (r *PostRepository) Stats(ctx context.Context, postIDs []string, viewerID string) (map[string]entities.PostStats, error) {
	result := make(map[string]entities.PostStats, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	db := getDB(ctx, r.db)

	likes, err := countBy(db, &PostLikeModel{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := countBy(db, &CommentModel{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	saves, err := countBy(db, &SavedCollectionPostModel{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	liked, err := likedBy(db, &PostLikeModel{}, "post_id", postIDs, viewerID)
	if err != nil {
		return nil, err
	}

	for _, id := range postIDs {
		result[id] = entities.PostStats{
			Likes:    likes[id],
			Comments: comments[id],
			Saves:    saves[id],
			MeLike:   liked[id],
		}
	}
	return result, nil
}

type groupCount struct {
	GroupKey string
	Total    int64
}

// countBy conta linhas de model agrupadas por column, para os ids informados
func countBy(db *gorm.DB, model any, column string, ids []string) (map[string]int64, error) {
	var rows []groupCount
	err := db.Model(model).
		Select(column + " AS group_key, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}
	return counts, nil
}

// likedBy indica quais ids já foram curtidos pelo leitor
func likedBy(db *gorm.DB, model any, column string, ids []string, viewerID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if viewerID == "" {
		return liked, nil
	}

	var keys []string
	err := db.Model(model).
		Where("author_id = ? AND "+column+" IN ?", viewerID, ids).
		Pluck(column, &keys).Error
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		liked[key] = true
	}
	return liked, nil
}

func postToModel(post *entities.Post) *PostModel {
	return &PostModel{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Image:     post.Image,
		Caption:   post.Caption,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func postToEntity(model *PostModel) (*entities.Post, error) {
	post := &entities.Post{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		Image:     model.Image,
		Caption:   model.Caption,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.Author.ID != "" {
		author, err := userToEntity(&model.Author)
		if err != nil {
			return nil, err
		}
		post.Author = author
	}
	return post, nil
}
