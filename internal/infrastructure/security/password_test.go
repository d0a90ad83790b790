package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Sunny-Harbor-42")
	require.NoError(t, err)
	assert.NotEqual(t, "Sunny-Harbor-42", hash)

	assert.True(t, hasher.Compare(hash, "Sunny-Harbor-42"))
	assert.False(t, hasher.Compare(hash, "sunny-harbor-42"))
	assert.False(t, hasher.Compare("not-a-hash", "Sunny-Harbor-42"))
}

func TestBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestPasswordPolicy(t *testing.T) {
	email, err := valueobjects.NewEmail("ilhom.dev@example.com")
	require.NoError(t, err)
	user := &entities.User{Username: "rahimov", Email: &email}

	policy := NewPasswordPolicy()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sunny-Harbor-42", false},
		{"too short", "Ab1-xyz", true},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), true},
		{"only digits", "4815162342", true},
		{"common password", "Password1", true},
		{"contains username", "my-rahimov-pass", true},
		{"contains email local part", "xx-ilhom.dev-xx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.password, user)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrPasswordPolicy)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.NoError(t, policy.Validate("Sunny-Harbor-42", nil))
}

func TestDigitCodeGenerator(t *testing.T) {
	gen := NewDigitCodeGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := gen.Generate(entities.CodeLength)
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{4}$`, code)
		seen[code] = struct{}{}
	}
	// 200 sorteios independentes de 10^4 valores quase nunca colidem todos
	assert.Greater(t, len(seen), 100)

	_, err := gen.Generate(0)
	assert.Error(t, err)
}
