package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// LikeRepository implementa repositories.LikeRepository sobre as tabelas
// post_likes e comment_likes
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository cria um novo LikeRepository
func NewLikeRepository(db *gorm.DB) repositories.LikeRepository {
	return &LikeRepository{db: db}
}

// likeTable descreve a tabela e a coluna alvo de cada tipo de curtida
type likeTable struct {
	model  any
	column string
}

func tableFor(kind entities.ResourceKind) (likeTable, error) {
	switch kind {
	case entities.ResourcePost:
		return likeTable{model: &PostLikeModel{}, column: "post_id"}, nil
	case entities.ResourceComment:
		return likeTable{model: &CommentLikeModel{}, column: "comment_id"}, nil
	}
	return likeTable{}, fmt.Errorf("unsupported like target %q", kind)
}

// likeRow é a projeção comum das duas tabelas
type likeRow struct {
	ID        string
	AuthorID  string
	TargetID  string
	CreatedAt time.Time
}

func (r *LikeRepository) Find(ctx context.Context, authorID, targetID string, kind entities.ResourceKind) (*entities.Like, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var row likeRow
	db := getDB(ctx, r.db)
	err = db.Model(table.model).
		Select("id, author_id, "+table.column+" AS target_id, created_at").
		Where("author_id = ? AND "+table.column+" = ?", authorID, targetID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entities.Like{
		ID:         row.ID,
		AuthorID:   row.AuthorID,
		TargetID:   row.TargetID,
		TargetKind: kind,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *entities.Like) error {
	db := getDB(ctx, r.db)

	var err error
	switch like.TargetKind {
	case entities.ResourcePost:
		err = db.Omit(clause.Associations).Create(&PostLikeModel{
			ID:        like.ID,
			AuthorID:  like.AuthorID,
			PostID:    like.TargetID,
			CreatedAt: like.CreatedAt,
		}).Error
	case entities.ResourceComment:
		err = db.Omit(clause.Associations).Create(&CommentLikeModel{
			ID:        like.ID,
			AuthorID:  like.AuthorID,
			CommentID: like.TargetID,
			CreatedAt: like.CreatedAt,
		}).Error
	default:
		return fmt.Errorf("unsupported like target %q", like.TargetKind)
	}
	return translateError(err)
}

func (r *LikeRepository) Delete(ctx context.Context, like *entities.Like) error {
	table, err := tableFor(like.TargetKind)
	if err != nil {
		return err
	}

	db := getDB(ctx, r.db)
	return db.Where("id = ?", like.ID).Delete(table.model).Error
}

func (r *LikeRepository) ListByTarget(ctx context.Context, targetID string, kind entities.ResourceKind, page repositories.Page) ([]*entities.Like, int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}

	db := getDB(ctx, r.db)
	query := db.Model(table.model).Where(table.column+" = ?", targetID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []likeRow
	page = page.Normalize()
	err = query.Session(&gorm.Session{}).
		Select("id, author_id, "+table.column+" AS target_id, created_at").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	authorIDs := make([]string, len(rows))
	for i, row := range rows {
		authorIDs[i] = row.AuthorID
	}
	authors, err := r.authors(db, authorIDs)
	if err != nil {
		return nil, 0, err
	}

	likes := make([]*entities.Like, len(rows))
	for i, row := range rows {
		likes[i] = &entities.Like{
			ID:         row.ID,
			AuthorID:   row.AuthorID,
			Author:     authors[row.AuthorID],
			TargetID:   row.TargetID,
			TargetKind: kind,
			CreatedAt:  row.CreatedAt,
		}
	}
	return likes, total, nil
}

func (r *LikeRepository) authors(db *gorm.DB, ids []string) (map[string]*entities.User, error) {
	result := make(map[string]*entities.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []*UserModel
	if err := db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, model := range models {
		user, err := userToEntity(model)
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}
	return result, nil
}
