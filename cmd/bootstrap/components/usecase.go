package components

import (
	"log/slog"

	"roombook/internal/infra/notify"
	"roombook/internal/pkg/clock"
	"roombook/internal/pkg/config"
	"roombook/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewBookingUseCase,
		NewNotifier,
		func(cfg config.Config) config.ReconcilerConfig { return cfg.Reconciler },
		usecase.NewReconciler,
	),
)

// NewNotifier builds the reminder delivery chain: the log sender behind a
// token-bucket limiter so a large sweep cannot flood the downstream channel.
func NewNotifier(cfg config.Config, logger *slog.Logger) usecase.Notifier {
	sender := notify.NewLogSender(logger)
	return notify.NewRateLimitedSender(sender, cfg.Reconciler.NotifyRatePerSec, cfg.Reconciler.NotifyBurst)
}
