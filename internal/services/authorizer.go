package services

import (
	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

// Action é uma operação de escrita sobre um recurso
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorizer decide se um usuário pode executar uma ação sobre um recurso
type Authorizer struct{}

// NewAuthorizer cria um novo Authorizer
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize retorna ErrForbidden quando o ator não pode executar a ação
func (a *Authorizer) Authorize(actor *entities.User, action Action, resource entities.OwnedResource) error {
	if actor == nil {
		return domainerrors.ErrUnauthorized
	}
	if resource.OwnerID() == actor.ID {
		return nil
	}
	if action != ActionDelete {
		return domainerrors.ErrForbidden
	}

	switch resource.Kind() {
	case entities.ResourcePost:
		if actor.HasPermission(entities.PermissionPostDeleteAny) {
			return nil
		}
	case entities.ResourceComment:
		if actor.HasPermission(entities.PermissionCommentDeleteAny) {
			return nil
		}
	}
	// curtidas só podem ser desfeitas pelo dono
	return domainerrors.ErrForbidden
}
