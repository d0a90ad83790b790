package dto

import (
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// SignUpRequest representa o cadastro por email ou telefone
type SignUpRequest struct {
	EmailOrPhone string `json:"email_or_phone" binding:"required,email_or_phone" example:"user@example.com"`
}

// LoginRequest aceita email, telefone ou username em userinput
type LoginRequest struct {
	UserInput string `json:"userinput" binding:"required,userinput" example:"john_doe"`
	Password  string `json:"password" binding:"required" example:"s3cret-pass"`
}

// RefreshRequest carrega o refresh token
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ForgotPasswordRequest pede um novo código para recuperar a senha
type ForgotPasswordRequest struct {
	EmailOrPhone string `json:"email_or_phone" binding:"required,email_or_phone"`
}

// ResetPasswordRequest define a nova senha
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=8"`
}

// VerifyRequest confirma o código recebido
type VerifyRequest struct {
	Code string `json:"code" binding:"required,len=4,numeric" example:"1234"`
}

// UpdateProfileRequest completa o perfil após a verificação
type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=150"`
	LastName        string `json:"last_name" binding:"required,max=150"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ToProfileInput converte a requisição para o serviço
func (r UpdateProfileRequest) ToProfileInput() services.ProfileInput {
	return services.ProfileInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Username:        r.Username,
		Password:        r.Password,
		PasswordConfirm: r.ConfirmPassword,
	}
}

// SignUpResponse é devolvida após o cadastro
type SignUpResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ID         string `json:"id"`
	AuthType   string `json:"auth_type"`
	AuthStatus string `json:"auth_status"`
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
}

// LoginResponse é devolvida após o login
type LoginResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	UserRole   string `json:"user_role"`
	FullName   string `json:"fullname"`
	AuthStatus string `json:"auth_status"`
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
}

// AccessResponse carrega um novo access token
type AccessResponse struct {
	Success bool   `json:"success"`
	Access  string `json:"access"`
}

// TokenResponse carrega um par de tokens e o status atual
type TokenResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	AuthType   string `json:"auth_type"`
	AuthStatus string `json:"auth_status"`
	Access     string `json:"access"`
	Refresh    string `json:"refresh"`
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       *string    `json:"email"`
	PhoneNumber *string    `json:"phone_number"`
	Photo       *string    `json:"photo"`
	UserRole    string     `json:"user_role"`
	AuthType    string     `json:"auth_type"`
	AuthStatus  string     `json:"auth_status"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	response := UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Photo:      user.Photo,
		UserRole:   string(user.Role),
		AuthType:   string(user.AuthType),
		AuthStatus: string(user.AuthStatus),
		LastLogin:  user.LastLoginAt,
		CreatedAt:  user.CreatedAt,
	}
	if user.Email != nil {
		email := user.Email.String()
		response.Email = &email
	}
	if user.PhoneNumber != nil {
		phone := user.PhoneNumber.String()
		response.PhoneNumber = &phone
	}
	return response
}

// UserEnvelope embrulha o usuário em {success, user}
type UserEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}
