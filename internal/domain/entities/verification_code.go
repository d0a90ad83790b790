package entities

import (
	"time"

	"github.com/google/uuid"
)

// CodeLength é o número de dígitos de um código de verificação
const CodeLength = 4

// VerificationCode é o código de uso único ligado a um usuário e a um canal.
// Existe no máximo um registro por usuário; novos pedidos sobrescrevem o atual.
type VerificationCode struct {
	ID             string
	UserID         string
	Code           string
	Channel        AuthType
	ExpirationTime time.Time
	Confirmed      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewVerificationCode cria o primeiro registro de um usuário
func NewVerificationCode(userID, code string, channel AuthType, expiresAt time.Time) *VerificationCode {
	now := time.Now().UTC()
	return &VerificationCode{
		ID:             uuid.NewString(),
		UserID:         userID,
		Code:           code,
		Channel:        channel,
		ExpirationTime: expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsPending indica um código não confirmado e ainda válido
func (c *VerificationCode) IsPending(now time.Time) bool {
	return !c.Confirmed && c.ExpirationTime.After(now)
}

// Matches verifica código e validade (expiration_time >= now)
func (c *VerificationCode) Matches(code string, now time.Time) bool {
	return c.Code == code && !c.ExpirationTime.Before(now)
}

// Refresh sobrescreve o registro com um novo código
func (c *VerificationCode) Refresh(code string, channel AuthType, expiresAt time.Time) {
	c.Code = code
	c.Channel = channel
	c.ExpirationTime = expiresAt
	c.Confirmed = false
	c.UpdatedAt = time.Now().UTC()
}
