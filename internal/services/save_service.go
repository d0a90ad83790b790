package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// SaveService mantém as coleções de publicações salvas
type SaveService struct {
	collections repositories.SavedCollectionRepository
	posts       repositories.PostRepository
	uow         ports.UnitOfWork
	logger      ports.Logger
}

// NewSaveService cria um novo SaveService
func NewSaveService(
	collections repositories.SavedCollectionRepository,
	posts repositories.PostRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *SaveService {
	return &SaveService{
		collections: collections,
		posts:       posts,
		uow:         uow,
		logger:      logger,
	}
}

// ToggleSave adiciona ou remove a publicação da coleção. Retorna o novo estado.
func (s *SaveService) ToggleSave(ctx context.Context, userID, postID, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = entities.DefaultCollectionName
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, domainerrors.ErrPostNotFound
	}

	var saved bool
	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		collection, err := s.collections.FindByName(txCtx, userID, name)
		if err != nil {
			return err
		}
		if collection == nil {
			collection = entities.NewSavedCollection(userID, name)
			if err := s.collections.Create(txCtx, collection); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return domainerrors.ErrCollectionConflict
				}
				return err
			}
		}

		if slices.Contains(collection.PostIDs, postID) {
			saved = false
			return s.collections.RemovePost(txCtx, collection.ID, postID)
		}
		saved = true
		return s.collections.AddPost(txCtx, collection.ID, postID)
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("save toggled", "user_id", userID, "post_id", postID, "collection", name, "saved", saved)
	return saved, nil
}

// ListCollections lista as coleções do usuário
func (s *SaveService) ListCollections(ctx context.Context, userID string) ([]*entities.SavedCollection, error) {
	return s.collections.ListByUser(ctx, userID)
}
