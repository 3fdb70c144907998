package usecase

import (
	"context"
	"trial-intake-api/internal/domain"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	notifier   domain.TrialNotifier
	redisCheck func(ctx context.Context) error
}

// NewHealthUsecase reports on the relay destination and the rate-limit store.
// redisCheck may be nil when Redis is not used.
func NewHealthUsecase(notifier domain.TrialNotifier, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{
		notifier:   notifier,
		redisCheck: redisCheck,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":  "ok",
		"webhook": "not_configured",
		"redis":   "disabled",
	}
	if u.notifier != nil && u.notifier.Configured() {
		status["webhook"] = "configured"
	}
	if u.redisCheck != nil {
		if err := u.redisCheck(ctx); err != nil {
			// in-memory rate limiting still works
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
