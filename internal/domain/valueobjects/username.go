package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrUsernameLength  = errors.New("username must be between 5 and 14 characters")
	ErrUsernameNumeric = errors.New("username must not be only digits")
)

const (
	UsernameMinLength = 5
	UsernameMaxLength = 14
)

var loginUsernamePattern = regexp.MustCompile(`^[a-z0-9_-]{4,15}$`)

// ValidateUsername aplica as regras de username do preenchimento de perfil:
// 5 a 14 caracteres e não pode ser composto só por dígitos.
func ValidateUsername(username string) error {
	n := len([]rune(username))
	if n < UsernameMinLength || n > UsernameMaxLength {
		return ErrUsernameLength
	}
	if isAllDigits(username) {
		return ErrUsernameNumeric
	}
	return nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// InputKind é o tipo de identificador digitado pelo usuário
type InputKind string

const (
	InputEmail    InputKind = "email"
	InputPhone    InputKind = "phone"
	InputUsername InputKind = "username"
)

// ErrUnrecognizedInput é retornado quando o texto não é email, telefone nem username
var ErrUnrecognizedInput = errors.New("input is not an email, phone or username")

// ClassifyContact aceita apenas email ou telefone (cadastro e recuperação de senha)
func ClassifyContact(input string) (InputKind, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch {
	case isValidEmail(input):
		return InputEmail, nil
	case len(input) <= 20 && phonePattern.MatchString(input):
		return InputPhone, nil
	}
	return "", ErrUnrecognizedInput
}

// ClassifyLogin aceita email, telefone ou username
func ClassifyLogin(input string) (InputKind, error) {
	if kind, err := ClassifyContact(input); err == nil {
		return kind, nil
	}
	if loginUsernamePattern.MatchString(strings.TrimSpace(strings.ToLower(input))) {
		return InputUsername, nil
	}
	return "", ErrUnrecognizedInput
}
