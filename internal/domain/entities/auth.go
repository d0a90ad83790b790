package entities

import (
	"time"

	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

// AuthType é o canal usado para autenticar a conta
type AuthType string

const (
	AuthTypeEmail AuthType = "email"
	AuthTypePhone AuthType = "phone"
)

// IsValid verifica se o canal é suportado
func (t AuthType) IsValid() bool {
	return t == AuthTypeEmail || t == AuthTypePhone
}

// AuthStatus marca o progresso do onboarding da conta
type AuthStatus string

const (
	AuthStatusNew          AuthStatus = "new"
	AuthStatusCodeVerified AuthStatus = "code_verified"
	AuthStatusDone         AuthStatus = "done"
	AuthStatusPhotoStep    AuthStatus = "photo_step"
)

// CanCompleteProfile indica se o perfil pode ser preenchido neste status
func (s AuthStatus) CanCompleteProfile() bool {
	switch s {
	case AuthStatusCodeVerified, AuthStatusDone, AuthStatusPhotoStep:
		return true
	}
	return false
}

// CanAttachPhoto indica se a foto pode ser anexada neste status
func (s AuthStatus) CanAttachPhoto() bool {
	return s == AuthStatusDone || s == AuthStatusPhotoStep
}

// Transições da máquina de estados. Cada método altera apenas AuthStatus;
// a persistência fica com o serviço.

// MarkCodeVerified avança new -> code_verified. Retorna true se houve transição.
func (u *User) MarkCodeVerified() bool {
	if u.AuthStatus != AuthStatusNew {
		return false
	}
	u.AuthStatus = AuthStatusCodeVerified
	return true
}

// MarkProfileDone leva qualquer status desbloqueado para done, inclusive
// photo_step -> done.
func (u *User) MarkProfileDone() error {
	if !u.AuthStatus.CanCompleteProfile() {
		return domainerrors.ErrProfileIncompleteState
	}
	u.AuthStatus = AuthStatusDone
	return nil
}

// MarkPhotoAttached grava a foto e avança done -> photo_step
func (u *User) MarkPhotoAttached(photoURL string) error {
	if !u.AuthStatus.CanAttachPhoto() {
		return domainerrors.ErrPhotoStepNotAllowed
	}
	u.Photo = &photoURL
	u.AuthStatus = AuthStatusPhotoStep
	return nil
}

// CodeExpiryPolicy define a validade dos códigos por canal
type CodeExpiryPolicy struct {
	EmailTTL time.Duration
	PhoneTTL time.Duration
}

// DefaultCodeExpiryPolicy: email 5 minutos, telefone 2 minutos
func DefaultCodeExpiryPolicy() CodeExpiryPolicy {
	return CodeExpiryPolicy{
		EmailTTL: 5 * time.Minute,
		PhoneTTL: 2 * time.Minute,
	}
}

// ExpiresAt calcula a expiração de um código emitido em now
func (p CodeExpiryPolicy) ExpiresAt(channel AuthType, now time.Time) time.Time {
	if channel == AuthTypePhone {
		return now.Add(p.PhoneTTL)
	}
	return now.Add(p.EmailTTL)
}
