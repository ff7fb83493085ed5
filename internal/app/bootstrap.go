package app

import (
	"context"
	"fmt"

	"github.com/cobrexhq/cobrex/internal/domain"
)

// seedAdmin provisions the first admin account on an empty store. Without
// it a fresh deployment has no way in: user creation itself requires an
// authenticated admin.
func (app *Application) seedAdmin(ctx context.Context) error {
	users, err := app.db.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	if app.cfg.AdminEmail == "" || app.cfg.AdminPassword == "" {
		if app.cfg.Env != "dev" {
			return fmt.Errorf("store has no users: set ADMIN_EMAIL and ADMIN_PASSWORD to seed the first admin")
		}
		app.logger.Warn("store has no users and no seed admin configured")
		return nil
	}

	u, err := app.authService.Register(ctx, app.cfg.AdminName, app.cfg.AdminEmail, app.cfg.AdminPassword, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	app.logger.Info("seed admin created", "email", u.Email)
	return nil
}
