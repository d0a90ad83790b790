package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleSimple  Role = "simple"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Permission representa uma permissão específica
type Permission string

const (
	// Content permissions
	PermissionPostDeleteAny    Permission = "posts.delete_any"
	PermissionCommentDeleteAny Permission = "comments.delete_any"

	// User permissions
	PermissionUserRead   Permission = "users.read"
	PermissionUserDelete Permission = "users.delete"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPostDeleteAny,
		PermissionCommentDeleteAny,
		PermissionUserRead,
		PermissionUserDelete,
	},
	RoleManager: {
		PermissionPostDeleteAny,
		PermissionCommentDeleteAny,
		PermissionUserRead,
	},
	RoleSimple: {
		PermissionUserRead,
	},
}

// IsValid verifica se o role é conhecido
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
