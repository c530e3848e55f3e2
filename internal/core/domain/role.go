package domain

// Role is the closed set of user classifications that drive navigation and
// access. Values are the exact literals issued by the backend.
type Role string

const (
	RoleDirector Role = "Usuário interno - Diretor da Divisão"
	RoleAuditor  Role = "Usuário interno - Auditor"
	RoleAudited  Role = "Usuário externo - Auditado"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleDirector, RoleAuditor, RoleAudited}
}

// Known reports whether r is one of the recognised roles. Comparison is
// exact and case-sensitive.
func (r Role) Known() bool {
	switch r {
	case RoleDirector, RoleAuditor, RoleAudited:
		return true
	}
	return false
}
