package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number format")
)

// Aceita formatos como +998901234567, (90) 123-45-67, 90.123.4567
var phonePattern = regexp.MustCompile(`^\+?\(?[0-9]{2}\)?[-\s.]?[0-9]{3}[-\s.]?[0-9]{2,5}[-\s.]?[0-9]{2,5}$`)

// Phone é um value object para números de telefone
type Phone struct {
	value string
}

// NewPhone cria um novo Phone validado
func NewPhone(phone string) (Phone, error) {
	phone = strings.TrimSpace(phone)

	if len(phone) > 20 || !phonePattern.MatchString(phone) {
		return Phone{}, ErrInvalidPhone
	}

	return Phone{value: phone}, nil
}

// String retorna o valor do telefone
func (p Phone) String() string {
	return p.value
}
