package repositories

import (
	"context"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários.
// Os métodos Find* retornam (nil, nil) quando o registro não existe.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	// FindByIDForUpdate lê o usuário com lock de linha quando ctx carrega
	// uma transação
	FindByIDForUpdate(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByPhone(ctx context.Context, phone string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error)
	// Update grava todos os campos de um usuário existente; não recria
	// um registro removido
	Update(ctx context.Context, user *entities.User) error
	// UpdateLastLogin altera apenas last_login
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
