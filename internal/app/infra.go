package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/entnt/dentdesk/config"
	"github.com/entnt/dentdesk/internal/store"
	"github.com/entnt/dentdesk/pkg/authorize"
	"github.com/entnt/dentdesk/pkg/blob"
	redispkg "github.com/entnt/dentdesk/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideStore),
	fx.Provide(ProvideBlobStorage),
	fx.Provide(ProvideAuthorizer),
)

func ProvideStore(lc fx.Lifecycle, cfg *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Backend {
	case "redis":
		rdb, rerr := redispkg.NewRedisFromCentral(cfg.Store.Redis)
		if rerr != nil {
			return nil, rerr
		}
		st, err = store.NewRedisStore(rdb)
		if err == nil {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					slog.Debug("closing redis connection")
					return rdb.Close()
				},
			})
		}
	default:
		st, err = store.NewFileStore(cfg.Store.File.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing store")
			return st.Close()
		},
	})
	return st, nil
}

func ProvideBlobStorage(cfg *config.Config) (blob.Storage, error) {
	switch cfg.Blob.Backend {
	case "s3":
		return blob.NewS3(cfg.Blob.S3)
	default:
		return blob.NewLocal(cfg.Blob.Local.Dir)
	}
}

func ProvideAuthorizer() (*authorize.Authorizer, error) {
	return authorize.New()
}
