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

// VerificationCodeRepository implementa repositories.VerificationCodeRepository
type VerificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository cria um novo VerificationCodeRepository
func NewVerificationCodeRepository(db *gorm.DB) repositories.VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// FindByUserIDForUpdate usa SELECT ... FOR UPDATE; o lock vale até o fim da
// transação em ctx
func (r *VerificationCodeRepository) FindByUserIDForUpdate(ctx context.Context, userID string) (*entities.VerificationCode, error) {
	var model VerificationCodeModel

	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return codeToEntity(&model), nil
}

func (r *VerificationCodeRepository) FindActiveMatch(ctx context.Context, userID, code string, now time.Time) (*entities.VerificationCode, error) {
	var model VerificationCodeModel

	db := getDB(ctx, r.db)
	err := db.Where("user_id = ? AND code = ? AND expiration_time >= ?", userID, code, now.UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return codeToEntity(&model), nil
}

// Upsert insere o registro ou sobrescreve code, canal, expiração e confirmação
func (r *VerificationCodeRepository) Upsert(ctx context.Context, code *entities.VerificationCode) error {
	model := codeToModel(code)

	db := getDB(ctx, r.db)
	return db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code", "verify_type", "expiration_time", "is_confirmed", "updated_at",
		}),
	}).Create(model).Error
}

func (r *VerificationCodeRepository) MarkConfirmed(ctx context.Context, codeID string) error {
	db := getDB(ctx, r.db)
	return db.Model(&VerificationCodeModel{}).
		Where("id = ?", codeID).
		Updates(map[string]any{"is_confirmed": true, "updated_at": time.Now().UTC()}).Error
}

func codeToModel(code *entities.VerificationCode) *VerificationCodeModel {
	return &VerificationCodeModel{
		ID:             code.ID,
		UserID:         code.UserID,
		Code:           code.Code,
		Channel:        string(code.Channel),
		ExpirationTime: code.ExpirationTime.UTC(),
		Confirmed:      code.Confirmed,
		CreatedAt:      code.CreatedAt,
		UpdatedAt:      code.UpdatedAt,
	}
}

func codeToEntity(model *VerificationCodeModel) *entities.VerificationCode {
	return &entities.VerificationCode{
		ID:             model.ID,
		UserID:         model.UserID,
		Code:           model.Code,
		Channel:        entities.AuthType(model.Channel),
		ExpirationTime: model.ExpirationTime,
		Confirmed:      model.Confirmed,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
