package ports

import (
	"context"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

// TokenPair é o par de credenciais de sessão
type TokenPair struct {
	Access  string
	Refresh string
}

// AccessClaims são os dados extraídos de um access token válido
type AccessClaims struct {
	UserID string
	Role   entities.Role
}

// TokenIssuer emite, renova e revoga credenciais de sessão
type TokenIssuer interface {
	IssueTokenPair(ctx context.Context, user *entities.User) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (userID string, access string, err error)
	Revoke(ctx context.Context, refreshToken string) error
	ParseAccess(ctx context.Context, accessToken string) (*AccessClaims, error)
}
