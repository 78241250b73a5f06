package watch

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/entnt/dentdesk/internal/app"
	"github.com/entnt/dentdesk/internal/repo"
	sessionsvc "github.com/entnt/dentdesk/internal/service/session"
	"github.com/entnt/dentdesk/internal/store"
)

// NewWatchCommand runs a long-lived context that logs every store
// change and session transition until interrupted. Useful for
// observing cross-context convergence while other processes write.
func NewWatchCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow store changes and session transitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(cmd)
			if err != nil {
				return err
			}

			fxApp := app.New(cfg,
				fx.Invoke(follow),
				fx.StopTimeout(shutdownTimeout),
			)
			fxApp.Run()
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	return cmd
}

func follow(lc fx.Lifecycle, st store.Store, mgr *sessionsvc.Manager) {
	keys := []string{repo.KeyUsers, repo.KeyPatients, repo.KeyIncidents, sessionsvc.Key}

	var unsubs []func()
	for _, key := range keys {
		unsubs = append(unsubs, st.Subscribe(key, func(e store.Event) {
			slog.Info("store change",
				"key", e.Key,
				"was_set", e.OldValue != nil,
				"is_set", e.NewValue != nil,
			)
			if e.Key == sessionsvc.Key {
				if user, ok := mgr.Current(); ok {
					slog.Info("session is now", "user", user.Email, "role", user.Role)
				} else {
					slog.Info("session is now empty")
				}
			}
		}))
	}

	lc.Append(fx.StopHook(func() {
		for _, u := range unsubs {
			u()
		}
	}))
}
