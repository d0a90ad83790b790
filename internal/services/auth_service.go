package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// usernameAttempts limita as tentativas de gerar um username livre
const usernameAttempts = 5

// AuthService cuida de cadastro, login e sessão
type AuthService struct {
	users        repositories.UserRepository
	uow          ports.UnitOfWork
	verification *VerificationService
	tokens       ports.TokenIssuer
	hasher       ports.PasswordHasher
	policy       ports.PasswordPolicy
	logger       ports.Logger
	now          func() time.Time
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	users repositories.UserRepository,
	uow ports.UnitOfWork,
	verification *VerificationService,
	tokens ports.TokenIssuer,
	hasher ports.PasswordHasher,
	policy ports.PasswordPolicy,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		uow:          uow,
		verification: verification,
		tokens:       tokens,
		hasher:       hasher,
		policy:       policy,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult é o usuário autenticado e seu par de tokens
type AuthResult struct {
	User   *entities.User
	Tokens ports.TokenPair
}

// SignUp cria uma conta a partir de um email ou telefone e envia o primeiro código
func (s *AuthService) SignUp(ctx context.Context, emailOrPhone string) (*AuthResult, error) {
	s.logger.Info("signing up user")

	user, err := s.newUserFromContact(ctx, emailOrPhone)
	if err != nil {
		return nil, err
	}

	username, err := s.freeUsername(ctx)
	if err != nil {
		return nil, err
	}
	user.Username = username

	// senha aleatória até o preenchimento do perfil
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	var code string
	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return duplicateContactError(user.AuthType)
			}
			return err
		}

		code, err = s.verification.IssueCode(txCtx, user, user.AuthType)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.verification.DispatchCode(user, user.AuthType, code)

	tokens, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "auth_type", user.AuthType)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) newUserFromContact(ctx context.Context, input string) (*entities.User, error) {
	kind, err := valueobjects.ClassifyContact(input)
	if err != nil {
		return nil, domainerrors.ErrInvalidEmailOrPhone
	}
	input = strings.TrimSpace(input)

	switch kind {
	case valueobjects.InputEmail:
		email, err := valueobjects.NewEmail(input)
		if err != nil {
			return nil, domainerrors.ErrInvalidEmail
		}
		existing, err := s.users.FindByEmail(ctx, email.String())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domainerrors.ErrEmailAlreadyExists
		}
		return entities.NewUser(entities.AuthTypeEmail, &email, nil), nil

	default:
		phone, err := valueobjects.NewPhone(input)
		if err != nil {
			return nil, domainerrors.ErrInvalidPhone
		}
		existing, err := s.users.FindByPhone(ctx, phone.String())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domainerrors.ErrPhoneAlreadyExists
		}
		return entities.NewUser(entities.AuthTypePhone, nil, &phone), nil
	}
}

func (s *AuthService) freeUsername(ctx context.Context) (string, error) {
	for i := 0; i < usernameAttempts; i++ {
		candidate := entities.GenerateUsername()
		taken, err := s.users.UsernameTaken(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a free username after %d attempts", usernameAttempts)
}

func duplicateContactError(authType entities.AuthType) error {
	if authType == entities.AuthTypePhone {
		return domainerrors.ErrPhoneAlreadyExists
	}
	return domainerrors.ErrEmailAlreadyExists
}

// Login autentica por email, telefone ou username
func (s *AuthService) Login(ctx context.Context, userInput, password string) (*AuthResult, error) {
	user, err := s.findByLoginInput(ctx, userInput)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Warn("login rejected", "user_id", user.ID)
		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := s.touchLastLogin(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) findByLoginInput(ctx context.Context, input string) (*entities.User, error) {
	kind, err := valueobjects.ClassifyLogin(input)
	if err != nil {
		return nil, domainerrors.ErrInvalidUserInput
	}
	input = strings.TrimSpace(input)

	var user *entities.User
	switch kind {
	case valueobjects.InputEmail:
		user, err = s.users.FindByEmail(ctx, strings.ToLower(input))
	case valueobjects.InputPhone:
		user, err = s.users.FindByPhone(ctx, input)
	default:
		user, err = s.users.FindByUsername(ctx, input)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) touchLastLogin(ctx context.Context, user *entities.User) error {
	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// RefreshToken troca um refresh token válido por um novo access token
func (s *AuthService) RefreshToken(ctx context.Context, refresh string) (string, error) {
	userID, access, err := s.tokens.Refresh(ctx, refresh)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domainerrors.ErrUserNotFound
	}

	if err := s.touchLastLogin(ctx, user); err != nil {
		return "", err
	}
	return access, nil
}

// Logout revoga o refresh token
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if err := s.tokens.Revoke(ctx, refresh); err != nil {
		return err
	}
	s.logger.Info("refresh token revoked")
	return nil
}

// ForgotPassword envia um código para o email ou telefone cadastrado
func (s *AuthService) ForgotPassword(ctx context.Context, emailOrPhone string) (*AuthResult, error) {
	input := strings.TrimSpace(emailOrPhone)

	channel := entities.AuthTypeEmail
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		return nil, err
	}
	if user == nil {
		channel = entities.AuthTypePhone
		user, err = s.users.FindByPhone(ctx, input)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	if _, err := s.verification.RequestCode(ctx, user.ID, channel); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// ResetPassword grava uma nova senha para o usuário autenticado
func (s *AuthService) ResetPassword(ctx context.Context, userID, password, confirm string) (*AuthResult, error) {
	if password != confirm {
		return nil, domainerrors.ErrPasswordMismatch
	}
	if password == "" {
		return nil, domainerrors.ErrPasswordRequired
	}

	var user *entities.User
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.users.FindByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}

		if err := s.policy.Validate(password, user); err != nil {
			return err
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		user.Touch()

		return s.users.Update(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// IssueTokens emite um par de tokens para o usuário
func (s *AuthService) IssueTokens(ctx context.Context, user *entities.User) (ports.TokenPair, error) {
	tokens, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return tokens, nil
}
