package security

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// RevocationStore guarda os IDs (jti) de refresh tokens revogados
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims são as claims dos tokens emitidos pela API
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// JWTIssuer implementa ports.TokenIssuer com HS256
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationStore
	now        func() time.Time
}

// NewJWTIssuer cria um novo JWTIssuer
func NewJWTIssuer(secret string, accessTTL, refreshTTL time.Duration, revoked RevocationStore) *JWTIssuer {
	return &JWTIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
		now:        time.Now,
	}
}

func (j *JWTIssuer) IssueTokenPair(_ context.Context, user *entities.User) (ports.TokenPair, error) {
	access, err := j.sign(user.ID, string(user.Role), tokenTypeAccess, j.accessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := j.sign(user.ID, string(user.Role), tokenTypeRefresh, j.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWTIssuer) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := j.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	revoked, err := j.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return "", "", domainerrors.ErrTokenRevoked
	}

	access, err := j.sign(claims.Subject, claims.Role, tokenTypeAccess, j.accessTTL)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, access, nil
}

func (j *JWTIssuer) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := j.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(j.now())
	if ttl <= 0 {
		return nil
	}
	if err := j.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (j *JWTIssuer) ParseAccess(_ context.Context, accessToken string) (*ports.AccessClaims, error) {
	claims, err := j.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &ports.AccessClaims{
		UserID: claims.Subject,
		Role:   entities.Role(claims.Role),
	}, nil
}

func (j *JWTIssuer) sign(userID, role, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      role,
		TokenType: tokenType,
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (j *JWTIssuer) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidToken, err)
	}

	if !token.Valid || claims.TokenType != tokenType || claims.Subject == "" {
		return nil, domainerrors.ErrInvalidToken
	}
	return claims, nil
}
