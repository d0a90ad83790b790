package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// CommentRepository implementa repositories.CommentRepository
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository cria um novo CommentRepository
func NewCommentRepository(db *gorm.DB) repositories.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	db := getDB(ctx, r.db)
	return db.Omit(clause.Associations).Create(commentToModel(comment)).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*entities.Comment, error) {
	var model CommentModel

	db := getDB(ctx, r.db)
	if err := db.Preload("Author").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return commentToEntity(&model)
}

// Delete remove o comentário; respostas e curtidas caem em cascata
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	return db.Where("id = ?", id).Delete(&CommentModel{}).Error
}

func (r *CommentRepository) ListTopLevel(ctx context.Context, postID string, page repositories.Page) ([]*entities.Comment, int64, error) {
	var models []*CommentModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&CommentModel{}).Where("post_id = ? AND parent_id IS NULL", postID)

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	err := query.Session(&gorm.Session{}).Preload("Author").
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	comments, err := commentsToEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *CommentRepository) ListByParents(ctx context.Context, parentIDs []string) ([]*entities.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var models []*CommentModel

	db := getDB(ctx, r.db)
	err := db.Preload("Author").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return commentsToEntities(models)
}

func (r *CommentRepository) Stats(ctx context.Context, commentIDs []string, viewerID string) (map[string]entities.CommentStats, error) {
	result := make(map[string]entities.CommentStats, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}

	db := getDB(ctx, r.db)

	likes, err := countBy(db, &CommentLikeModel{}, "comment_id", commentIDs)
	if err != nil {
		return nil, err
	}
	liked, err := likedBy(db, &CommentLikeModel{}, "comment_id", commentIDs, viewerID)
	if err != nil {
		return nil, err
	}

	for _, id := range commentIDs {
		result[id] = entities.CommentStats{Likes: likes[id], MeLike: liked[id]}
	}
	return result, nil
}

func commentToModel(comment *entities.Comment) *CommentModel {
	return &CommentModel{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func commentToEntity(model *CommentModel) (*entities.Comment, error) {
	comment := &entities.Comment{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		PostID:    model.PostID,
		ParentID:  model.ParentID,
		Text:      model.Text,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.Author.ID != "" {
		author, err := userToEntity(&model.Author)
		if err != nil {
			return nil, err
		}
		comment.Author = author
	}
	return comment, nil
}

func commentsToEntities(models []*CommentModel) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0, len(models))
	for _, model := range models {
		comment, err := commentToEntity(model)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
