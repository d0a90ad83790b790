package ports

import "context"

// UnitOfWork carrega a transação no contexto. Repositórios chamados com o
// ctx devolvido por Begin (ou recebido em WithTransaction) participam dela.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// WithTransaction reaproveita a transação já presente em ctx
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
