package devapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

// SeedUser is an account created at startup.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DefaultSeed has one account per role.
var DefaultSeed = []SeedUser{
	{Name: "Hugo", Email: "hugo@jfsc.jus.br", Password: "123456", Role: domain.RoleDirector},
	{Name: "Ana Auditora", Email: "ana@jfsc.jus.br", Password: "123456", Role: domain.RoleAuditor},
	{Name: "Setor Auditado", Email: "auditado@jfsc.jus.br", Password: "123456", Role: domain.RoleAudited},
}

// Seed registers users, skipping the ones that already exist.
func Seed(ctx context.Context, svc *AuthService, users []SeedUser) error {
	for _, u := range users {
		if _, err := svc.Register(ctx, u.Name, u.Email, u.Password, u.Role); err != nil && !errors.Is(err, ErrUserExists) {
			return fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return nil
}
