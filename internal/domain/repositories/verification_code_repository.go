package repositories

import (
	"context"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

// VerificationCodeRepository guarda o registro único de código por usuário
type VerificationCodeRepository interface {
	// FindByUserIDForUpdate lê o registro do usuário com lock de linha
	// quando executado dentro de uma transação. (nil, nil) se não existe.
	FindByUserIDForUpdate(ctx context.Context, userID string) (*entities.VerificationCode, error)
	// FindActiveMatch busca o registro com code igual e expiration_time >= now
	FindActiveMatch(ctx context.Context, userID, code string, now time.Time) (*entities.VerificationCode, error)
	// Upsert insere o primeiro registro ou sobrescreve o existente
	Upsert(ctx context.Context, code *entities.VerificationCode) error
	MarkConfirmed(ctx context.Context, codeID string) error
}
