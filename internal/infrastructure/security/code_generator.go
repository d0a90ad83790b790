package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// DigitCodeGenerator implementa ports.CodeGenerator sorteando cada dígito
// de forma independente com crypto/rand
type DigitCodeGenerator struct{}

// NewDigitCodeGenerator cria um novo DigitCodeGenerator
func NewDigitCodeGenerator() *DigitCodeGenerator {
	return &DigitCodeGenerator{}
}

func (g *DigitCodeGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	ten := big.NewInt(10)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
