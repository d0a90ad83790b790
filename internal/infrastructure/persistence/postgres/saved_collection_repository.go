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

// SavedCollectionRepository implementa repositories.SavedCollectionRepository
type SavedCollectionRepository struct {
	db *gorm.DB
}

// NewSavedCollectionRepository cria um novo SavedCollectionRepository
func NewSavedCollectionRepository(db *gorm.DB) repositories.SavedCollectionRepository {
	return &SavedCollectionRepository{db: db}
}

func (r *SavedCollectionRepository) FindByName(ctx context.Context, userID, name string) (*entities.SavedCollection, error) {
	var model SavedCollectionModel

	db := getDB(ctx, r.db)
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	postIDs, err := r.postIDs(db, []string{model.ID})
	if err != nil {
		return nil, err
	}
	return collectionToEntity(&model, postIDs[model.ID]), nil
}

func (r *SavedCollectionRepository) Create(ctx context.Context, collection *entities.SavedCollection) error {
	db := getDB(ctx, r.db)
	err := db.Omit(clause.Associations).Create(&SavedCollectionModel{
		ID:        collection.ID,
		UserID:    collection.UserID,
		Name:      collection.Name,
		CreatedAt: collection.CreatedAt,
		UpdatedAt: collection.UpdatedAt,
	}).Error
	return translateError(err)
}

func (r *SavedCollectionRepository) AddPost(ctx context.Context, collectionID, postID string) error {
	db := getDB(ctx, r.db)
	return db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SavedCollectionPostModel{
			CollectionID: collectionID,
			PostID:       postID,
			CreatedAt:    time.Now().UTC(),
		}).Error
}

func (r *SavedCollectionRepository) RemovePost(ctx context.Context, collectionID, postID string) error {
	db := getDB(ctx, r.db)
	return db.Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Delete(&SavedCollectionPostModel{}).Error
}

func (r *SavedCollectionRepository) ListByUser(ctx context.Context, userID string) ([]*entities.SavedCollection, error) {
	var models []*SavedCollectionModel

	db := getDB(ctx, r.db)
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(models))
	for i, model := range models {
		ids[i] = model.ID
	}
	postIDs, err := r.postIDs(db, ids)
	if err != nil {
		return nil, err
	}

	collections := make([]*entities.SavedCollection, len(models))
	for i, model := range models {
		collections[i] = collectionToEntity(model, postIDs[model.ID])
	}
	return collections, nil
}

func (r *SavedCollectionRepository) postIDs(db *gorm.DB, collectionIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return result, nil
	}

	var links []SavedCollectionPostModel
	err := db.Where("collection_id IN ?", collectionIDs).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		result[link.CollectionID] = append(result[link.CollectionID], link.PostID)
	}
	return result, nil
}

func collectionToEntity(model *SavedCollectionModel, postIDs []string) *entities.SavedCollection {
	if postIDs == nil {
		postIDs = []string{}
	}
	return &entities.SavedCollection{
		ID:        model.ID,
		UserID:    model.UserID,
		Name:      model.Name,
		PostIDs:   postIDs,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
