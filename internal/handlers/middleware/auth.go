package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/dto"
)

// CurrentUserContextKey guarda o usuário autenticado no contexto do Gin
const CurrentUserContextKey = "current_user"

// UserLoader carrega o usuário dono do token
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*entities.User, error)
}

// AuthMiddleware valida access tokens e carrega o usuário
type AuthMiddleware struct {
	tokens ports.TokenIssuer
	users  UserLoader
}

// NewAuthMiddleware cria um novo AuthMiddleware
func NewAuthMiddleware(tokens ports.TokenIssuer, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Required rejeita a requisição sem access token válido
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			dto.WriteError(c, domainerrors.ErrUnauthorized)
			return
		}

		user, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			dto.WriteError(c, err)
			return
		}

		c.Set(CurrentUserContextKey, user)
		c.Next()
	}
}

// Optional carrega o usuário quando há token válido e segue sem ele caso contrário
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := m.authenticate(c.Request.Context(), token); err == nil {
				c.Set(CurrentUserContextKey, user)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*entities.User, error) {
	claims, err := m.tokens.ParseAccess(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := m.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if domainerrors.KindOf(err) == domainerrors.KindNotFound {
			return nil, domainerrors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// bearerToken lê "Authorization: Bearer <token>" ou ?token= (websocket)
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

// CurrentUser devolve o usuário autenticado ou nil
func CurrentUser(c *gin.Context) *entities.User {
	value, ok := c.Get(CurrentUserContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*entities.User)
	return user
}

// ViewerID devolve o ID do usuário autenticado ou ""
func ViewerID(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}
