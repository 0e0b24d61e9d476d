package bootstrap

import (
	"context"

	"roombook/internal/usecase"

	"go.uber.org/fx"
)

var ReconcilerModule = fx.Module("reconciler",
	fx.Invoke(
		runReconciler,
	),
)

func runReconciler(lc fx.Lifecycle, r *usecase.Reconciler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			r.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			r.Stop()
			return nil
		},
	})
}
