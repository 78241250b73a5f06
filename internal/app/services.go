package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/entnt/dentdesk/config"
	"github.com/entnt/dentdesk/internal/repo"
	"github.com/entnt/dentdesk/internal/seed"
	"github.com/entnt/dentdesk/internal/service/attachment"
	"github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/internal/store"
	"github.com/entnt/dentdesk/pkg/blob"
)

// ServiceModule provides the repositories and application services.
var ServiceModule = fx.Module("services",
	fx.Provide(
		repo.NewUsers,
		repo.NewPatients,
		repo.NewIncidents,
		ProvideSessionManager,
		ProvideAttachmentService,
	),
)

// ProvideSessionManager seeds the reference dataset on first run, then
// restores any persisted session and starts following the session key.
func ProvideSessionManager(
	lc fx.Lifecycle,
	cfg *config.Config,
	st store.Store,
	users *repo.Users,
	patients *repo.Patients,
) (*session.Manager, error) {
	ctx := context.Background()

	if !cfg.Seed.Disabled {
		if err := seed.EnsureDefaults(ctx, st); err != nil {
			return nil, err
		}
	}

	mgr := session.NewManager(st, users, patients)
	if err := mgr.Init(ctx); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			mgr.Close()
			return nil
		},
	})
	return mgr, nil
}

func ProvideAttachmentService(incidents *repo.Incidents, blobs blob.Storage) attachment.Service {
	return attachment.New(incidents, blobs)
}
