package repositories

import "errors"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page é o contrato offset/limit usado nas listagens
type Page struct {
	Limit  int
	Offset int
}

// Normalize aplica os limites padrão
func (p Page) Normalize() Page {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ErrDuplicate é retornado quando uma restrição de unicidade é violada
var ErrDuplicate = errors.New("duplicate record")
