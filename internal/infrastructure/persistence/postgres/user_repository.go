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
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := userToModel(user)

	db := getDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*entities.User, error) {
	var model UserModel

	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return userToEntity(&model)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return r.findOne(ctx, "phone_number = ?", phone)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "LOWER(username) = LOWER(?)", username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var model UserModel

	db := getDB(ctx, r.db)
	if err := db.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return userToEntity(&model)
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error) {
	var count int64

	db := getDB(ctx, r.db)
	query := db.Model(&UserModel{}).Where("LOWER(username) = LOWER(?)", username)
	if exceptUserID != "" {
		query = query.Where("id <> ?", exceptUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update reescreve as colunas pelo id; um usuário já removido fica removido
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := userToModel(user)

	db := getDB(ctx, r.db)
	err := db.Model(&UserModel{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(model).Error
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	db := getDB(ctx, r.db)
	return db.Model(&UserModel{}).Where("id = ?", id).Update("last_login", at.UTC()).Error
}

// Delete remove o usuário; códigos e conteúdo caem em cascata pelas FKs
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	return db.Where("id = ?", id).Delete(&UserModel{}).Error
}

// translateError converte violações de unicidade em repositories.ErrDuplicate
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

// Conversores
func userToModel(user *entities.User) *UserModel {
	model := &UserModel{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Bio:          user.Bio,
		Gender:       user.Gender,
		Photo:        user.Photo,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		AuthType:     string(user.AuthType),
		AuthStatus:   string(user.AuthStatus),
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if user.Email != nil {
		email := user.Email.String()
		model.Email = &email
	}
	if user.PhoneNumber != nil {
		phone := user.PhoneNumber.String()
		model.PhoneNumber = &phone
	}

	return model
}

func userToEntity(model *UserModel) (*entities.User, error) {
	user := &entities.User{
		ID:           model.ID,
		Username:     model.Username,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Bio:          model.Bio,
		Gender:       model.Gender,
		Photo:        model.Photo,
		PasswordHash: model.PasswordHash,
		Role:         entities.Role(model.Role),
		AuthType:     entities.AuthType(model.AuthType),
		AuthStatus:   entities.AuthStatus(model.AuthStatus),
		LastLoginAt:  model.LastLoginAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Email != nil {
		email, err := valueobjects.NewEmail(*model.Email)
		if err != nil {
			return nil, err
		}
		user.Email = &email
	}
	if model.PhoneNumber != nil {
		phone, err := valueobjects.NewPhone(*model.PhoneNumber)
		if err != nil {
			return nil, err
		}
		user.PhoneNumber = &phone
	}

	return user, nil
}
