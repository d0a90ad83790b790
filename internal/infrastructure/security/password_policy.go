package security

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // limite do bcrypt em bytes
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"11111111":   {},
	"iloveyou":   {},
	"admin123":   {},
	"instagram":  {},
}

// PasswordPolicy implementa ports.PasswordPolicy: tamanho mínimo, não só
// dígitos, fora da lista de senhas comuns e sem conter username ou email
type PasswordPolicy struct{}

// NewPasswordPolicy cria a política padrão
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{}
}

func (p *PasswordPolicy) Validate(password string, user *entities.User) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return domainerrors.ErrPasswordPolicy
	}
	if onlyDigits(password) {
		return domainerrors.ErrPasswordPolicy
	}

	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return domainerrors.ErrPasswordPolicy
	}

	if user != nil {
		for _, attr := range personalAttributes(user) {
			if len(attr) >= 4 && strings.Contains(lower, attr) {
				return domainerrors.ErrPasswordPolicy
			}
		}
	}
	return nil
}

func personalAttributes(user *entities.User) []string {
	attrs := []string{strings.ToLower(user.Username)}
	if user.Email != nil {
		local, _, _ := strings.Cut(user.Email.String(), "@")
		attrs = append(attrs, strings.ToLower(local))
	}
	return attrs
}

func onlyDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
