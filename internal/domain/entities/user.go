package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// DefaultUsernamePrefix é usado para usernames gerados automaticamente
const DefaultUsernamePrefix = "instagram-"

// User representa um usuário do sistema
type User struct {
	ID           string
	Username     string
	Email        *valueobjects.Email
	PhoneNumber  *valueobjects.Phone
	FirstName    string
	LastName     string
	Bio          string
	Gender       *string
	Photo        *string
	PasswordHash string
	Role         Role
	AuthType     AuthType
	AuthStatus   AuthStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser cria um usuário no status new para o canal informado.
// O ID é gerado a cada chamada.
func NewUser(authType AuthType, email *valueobjects.Email, phone *valueobjects.Phone) *User {
	now := time.Now().UTC()
	return &User{
		ID:          uuid.NewString(),
		Email:       email,
		PhoneNumber: phone,
		Role:        RoleSimple,
		AuthType:    authType,
		AuthStatus:  AuthStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GenerateUsername devolve um username candidato no formato instagram-<12 hex>
func GenerateUsername() string {
	id := uuid.NewString()
	return DefaultUsernamePrefix + id[strings.LastIndex(id, "-")+1:]
}

// FullName junta nome e sobrenome
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Destination retorna o endereço do canal de autenticação
func (u *User) Destination() string {
	switch u.AuthType {
	case AuthTypeEmail:
		if u.Email != nil {
			return u.Email.String()
		}
	case AuthTypePhone:
		if u.PhoneNumber != nil {
			return u.PhoneNumber.String()
		}
	}
	return ""
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission verifica se o usuário tem uma permissão
func (u *User) HasPermission(permission Permission) bool {
	return u.Role.HasPermission(permission)
}

// GetPermissions retorna todas as permissões do usuário
func (u *User) GetPermissions() []string {
	perms := u.Role.GetPermissions()
	result := make([]string, len(perms))
	for i, p := range perms {
		result[i] = string(p)
	}
	return result
}

// Touch atualiza UpdatedAt
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}

	if !u.Role.IsValid() {
		return errors.New("invalid role")
	}

	if !u.AuthType.IsValid() {
		return errors.New("invalid auth type")
	}

	if u.Destination() == "" {
		return errors.New("auth channel destination is required")
	}

	return nil
}
