package usecase

import (
	"context"
	"errors"
	"time"
	"trial-intake-api/internal/domain"
	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/security"

	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidEmail  = "Invalid email"
	msgWebhookFailed = "Discord webhook failed"
)

type trialUsecase struct {
	notifier domain.TrialNotifier
	validate *validator.Validate
	events   *security.SecurityLogger
	now      func() time.Time
}

// NewTrialUsecase creates a new trial intake usecase. events may be nil.
func NewTrialUsecase(notifier domain.TrialNotifier, validate *validator.Validate, events *security.SecurityLogger) domain.TrialUsecase {
	return &trialUsecase{
		notifier: notifier,
		validate: validate,
		events:   events,
		now:      time.Now,
	}
}

// SubmitTrial validates the submission and relays it when a destination is configured
func (uc *trialUsecase) SubmitTrial(ctx context.Context, req *domain.TrialRequest) (*domain.TrialResult, error) {
	if req == nil {
		req = &domain.TrialRequest{}
	}
	meta := security.MetaFromContext(ctx)

	// Rules run in tag order and stop at the first failure; callers only see a generic message
	if err := uc.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, apperror.Internal(err)
		}
		uc.events.LogTrialEvent(ctx, security.EventValidationFailed, req.Email, meta, map[string]interface{}{
			"rule": fieldErrs[0].Tag(),
		})
		return nil, apperror.BadRequest(msgInvalidEmail)
	}

	note := domain.TrialNotification{
		Email:       req.Email,
		Source:      req.SourceOrDefault(),
		SubmittedAt: uc.now().UTC(),
	}

	if uc.notifier == nil || !uc.notifier.Configured() {
		uc.events.LogTrialEvent(ctx, security.EventTrialSubmitted, note.Email, meta, map[string]interface{}{
			"source":  note.Source,
			"relayed": false,
		})
		return &domain.TrialResult{Relayed: false}, nil
	}

	if err := uc.notifier.Notify(ctx, note); err != nil {
		uc.events.LogTrialEvent(ctx, security.EventTrialRelayFailed, note.Email, meta, map[string]interface{}{
			"source": note.Source,
			"error":  err.Error(),
		})
		if errors.Is(err, domain.ErrRelayRejected) {
			return nil, apperror.BadGateway(msgWebhookFailed, err)
		}
		return nil, apperror.Internal(err)
	}

	uc.events.LogTrialEvent(ctx, security.EventTrialRelayed, note.Email, meta, map[string]interface{}{
		"source": note.Source,
	})
	return &domain.TrialResult{Relayed: true}, nil
}
