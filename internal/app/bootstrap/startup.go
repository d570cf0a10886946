// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// CampusLink promotes the configured admin_email account to admin here
// so a fresh deployment always has a working administrator. A missing
// account is only a warning; the user may simply not have registered
// yet.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	store := userstore.New(deps.MongoDatabase)
	u, err := store.GetByEmail(opCtx, appCfg.AdminEmail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.Warn("admin_email user not found; register the account and restart to promote it",
				zap.String("email", appCfg.AdminEmail))
			return nil
		}
		return err
	}
	if u.Role == models.RoleAdmin {
		return nil
	}

	if err := store.UpdateRole(opCtx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("promoted admin user", zap.String("email", appCfg.AdminEmail))
	return nil
}
