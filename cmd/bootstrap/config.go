package bootstrap

import (
	"roombook/internal/domain/booking"
	"roombook/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewAdmissionPolicy,
	),
)

func NewAdmissionPolicy(cfg config.Config) (booking.AdmissionPolicy, error) {
	hours, err := booking.NewOperatingHours(cfg.Policy.OpensAt, cfg.Policy.ClosesAt)
	if err != nil {
		return booking.AdmissionPolicy{}, err
	}
	return booking.AdmissionPolicy{
		LeadTime:    cfg.Policy.LeadTime,
		MinDuration: cfg.Policy.MinDuration,
		MaxDuration: cfg.Policy.MaxDuration,
		Hours:       hours,
	}, nil
}
