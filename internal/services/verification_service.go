package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// VerificationDeps agrupa as dependências do VerificationService
type VerificationDeps struct {
	Users    repositories.UserRepository
	Codes    repositories.VerificationCodeRepository
	UoW      ports.UnitOfWork
	Notifier ports.Notifier
	Renderer ports.MessageRenderer
	Hasher   ports.PasswordHasher
	Policy   ports.PasswordPolicy
	Storage  ports.ObjectStorage
	CodeGen  ports.CodeGenerator
	Expiry   entities.CodeExpiryPolicy
	Metrics  ports.VerificationMetrics
	Logger   ports.Logger
	Now      func() time.Time
}

// VerificationService conduz a máquina de estados de auth_status e o ciclo
// de vida dos códigos de uso único
type VerificationService struct {
	users    repositories.UserRepository
	codes    repositories.VerificationCodeRepository
	uow      ports.UnitOfWork
	notifier ports.Notifier
	renderer ports.MessageRenderer
	hasher   ports.PasswordHasher
	policy   ports.PasswordPolicy
	storage  ports.ObjectStorage
	codegen  ports.CodeGenerator
	expiry   entities.CodeExpiryPolicy
	metrics  ports.VerificationMetrics
	logger   ports.Logger
	now      func() time.Time
}

// NewVerificationService cria um novo VerificationService
func NewVerificationService(deps VerificationDeps) *VerificationService {
	s := &VerificationService{
		users:    deps.Users,
		codes:    deps.Codes,
		uow:      deps.UoW,
		notifier: deps.Notifier,
		renderer: deps.Renderer,
		hasher:   deps.Hasher,
		policy:   deps.Policy,
		storage:  deps.Storage,
		codegen:  deps.CodeGen,
		expiry:   deps.Expiry,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.metrics == nil {
		s.metrics = ports.NopVerificationMetrics{}
	}
	if s.expiry == (entities.CodeExpiryPolicy{}) {
		s.expiry = entities.DefaultCodeExpiryPolicy()
	}
	return s
}

// RequestCodeResult é devolvido ao contexto do chamador; o código não vai
// para o cliente final, só para o payload de envio.
type RequestCodeResult struct {
	User *entities.User
	Code string
}

// RequestCode gera e envia um novo código para o usuário pelo canal informado.
// Um canal vazio usa o auth_type do usuário.
func (s *VerificationService) RequestCode(ctx context.Context, userID string, channel entities.AuthType) (*RequestCodeResult, error) {
	var result RequestCodeResult

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.users.FindByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}
		if channel == "" {
			channel = user.AuthType
		}

		code, err := s.IssueCode(txCtx, user, channel)
		if err != nil {
			return err
		}

		result.User = user
		result.Code = code
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.DispatchCode(result.User, channel, result.Code)
	return &result, nil
}

// IssueCode grava (ou sobrescreve) o código do usuário usando a transação
// presente em ctx. Não envia nada; chame DispatchCode depois do commit.
func (s *VerificationService) IssueCode(ctx context.Context, user *entities.User, channel entities.AuthType) (string, error) {
	if !channel.IsValid() {
		return "", domainerrors.ErrUnsupportedAuthType
	}
	if destinationFor(user, channel) == "" {
		return "", domainerrors.ErrUnsupportedAuthType
	}

	now := s.now()

	existing, err := s.codes.FindByUserIDForUpdate(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load verification code: %w", err)
	}
	if existing != nil && existing.IsPending(now) {
		s.metrics.CodeRejected("pending")
		return "", domainerrors.ErrCodeAlreadyPending
	}

	code, err := s.codegen.Generate(entities.CodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	expiresAt := s.expiry.ExpiresAt(channel, now)
	record := existing
	if record == nil {
		record = entities.NewVerificationCode(user.ID, code, channel, expiresAt)
	} else {
		record.Refresh(code, channel, expiresAt)
	}

	if err := s.codes.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	s.metrics.CodeRequested(string(channel))
	s.logger.Info("verification code issued",
		"user_id", user.ID,
		"channel", channel,
		"expires_at", expiresAt,
	)
	return code, nil
}

// DispatchCode entrega o código de forma assíncrona. Falhas são registradas
// pelo Notifier e nunca chegam ao chamador.
func (s *VerificationService) DispatchCode(user *entities.User, channel entities.AuthType, code string) {
	subject, body, err := s.renderer.RenderVerificationCode(code, channel)
	if err != nil {
		s.logger.Error("failed to render verification message", "user_id", user.ID, "error", err)
		return
	}
	s.notifier.Send(ports.Destination{
		Channel: channel,
		Address: destinationFor(user, channel),
	}, subject, body)
}

// ConfirmCode confirma um código válido e avança new -> code_verified
func (s *VerificationService) ConfirmCode(ctx context.Context, userID, code string) (*entities.User, error) {
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

		match, err := s.codes.FindActiveMatch(txCtx, user.ID, code, s.now())
		if err != nil {
			return fmt.Errorf("failed to load verification code: %w", err)
		}
		if match == nil {
			s.metrics.CodeRejected("invalid_or_expired")
			return domainerrors.ErrInvalidOrExpiredCode
		}

		if err := s.codes.MarkConfirmed(txCtx, match.ID); err != nil {
			return fmt.Errorf("failed to confirm verification code: %w", err)
		}

		if user.MarkCodeVerified() {
			user.Touch()
			if err := s.users.Update(txCtx, user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CodeConfirmed()
	s.logger.Info("verification code confirmed", "user_id", user.ID, "auth_status", user.AuthStatus)
	return user, nil
}

// ProfileInput são os campos do preenchimento de perfil
type ProfileInput struct {
	FirstName       string
	LastName        string
	Username        string
	Password        string
	PasswordConfirm string
}

// CompleteProfile grava username, nome e senha e leva o status para done
func (s *VerificationService) CompleteProfile(ctx context.Context, userID string, input ProfileInput) (*entities.User, error) {
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

		if !user.AuthStatus.CanCompleteProfile() {
			return domainerrors.ErrProfileIncompleteState
		}

		if err := s.validateUsername(txCtx, user, input.Username); err != nil {
			return err
		}

		if input.Password != input.PasswordConfirm {
			return domainerrors.ErrPasswordMismatch
		}

		user.FirstName = input.FirstName
		user.LastName = input.LastName
		user.Username = input.Username

		if err := s.policy.Validate(input.Password, user); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash

		if err := user.MarkProfileDone(); err != nil {
			return err
		}
		user.Touch()

		if err := s.users.Update(txCtx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return domainerrors.ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile completed", "user_id", user.ID, "auth_status", user.AuthStatus)
	return user, nil
}

func (s *VerificationService) validateUsername(ctx context.Context, user *entities.User, username string) error {
	if err := valueobjects.ValidateUsername(username); err != nil {
		if errors.Is(err, valueobjects.ErrUsernameNumeric) {
			return domainerrors.ErrUsernameNumeric
		}
		return domainerrors.ErrUsernameLength
	}

	taken, err := s.users.UsernameTaken(ctx, username, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return domainerrors.ErrUsernameTaken
	}
	return nil
}

// PhotoUpload descreve um arquivo recebido via multipart
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachPhoto guarda a foto de perfil e avança done -> photo_step
func (s *VerificationService) AttachPhoto(ctx context.Context, userID string, photo PhotoUpload) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	// falha cedo para não subir arquivo de uma conta bloqueada
	if !user.AuthStatus.CanAttachPhoto() {
		return nil, domainerrors.ErrPhotoStepNotAllowed
	}
	if err := valueobjects.CheckImageExtension(photo.Filename, valueobjects.ProfilePhotoExtensions); err != nil {
		return nil, domainerrors.ErrUnsupportedImageType
	}

	url, err := s.storage.Upload(ctx, "users_photos", photo.Filename, photo.Reader, photo.Size, photo.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err = s.users.FindByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}
		if err := user.MarkPhotoAttached(url); err != nil {
			return err
		}
		user.Touch()
		return s.users.Update(txCtx, user)
	})
	if err != nil {
		s.discardUpload(ctx, url)
		return nil, err
	}

	s.logger.Info("profile photo attached", "user_id", user.ID, "auth_status", user.AuthStatus)
	return user, nil
}

// discardUpload remove um arquivo que não chegou a ser gravado no usuário
func (s *VerificationService) discardUpload(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Warn("orphaned upload", "url", url, "error", err)
	}
}

func destinationFor(user *entities.User, channel entities.AuthType) string {
	switch channel {
	case entities.AuthTypeEmail:
		if user.Email != nil {
			return user.Email.String()
		}
	case entities.AuthTypePhone:
		if user.PhoneNumber != nil {
			return user.PhoneNumber.String()
		}
	}
	return ""
}
