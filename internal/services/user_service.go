package services

import (
	"context"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// UserService contém a lógica de negócio para leitura e remoção de usuários
type UserService struct {
	userRepo repositories.UserRepository
	uow      ports.UnitOfWork
	logger   ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		uow:      uow,
		logger:   logger,
	}
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// DeleteUser remove a conta e, em cascata, códigos e conteúdo.
// Só o próprio usuário ou quem tem users.delete pode remover.
func (s *UserService) DeleteUser(ctx context.Context, actor *entities.User, id string) error {
	if actor.ID != id && !actor.HasPermission(entities.PermissionUserDelete) {
		return domainerrors.ErrForbidden
	}

	return s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}
		if err := s.userRepo.Delete(txCtx, id); err != nil {
			return err
		}
		s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)
		return nil
	})
}
