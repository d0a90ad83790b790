package ports

import "github.com/RahimovIlhom/instagram-clone/internal/domain/entities"

// PasswordPolicy valida a força de uma senha
type PasswordPolicy interface {
	Validate(password string, user *entities.User) error
}

// PasswordHasher gera e confere hashes de senha
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// CodeGenerator gera códigos numéricos de verificação
type CodeGenerator interface {
	Generate(length int) (string, error)
}
