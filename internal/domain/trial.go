package domain

import (
	"context"
	"errors"
	"time"
)

// ErrRelayRejected is matched by notifier errors when the destination
// answered with a non-success status.
var ErrRelayRejected = errors.New("relay destination rejected notification")

// DefaultTrialSource labels submissions that do not say which page section sent them.
const DefaultTrialSource = "landing#trial"

// TrialRequest is a free-trial form submission. It is never persisted.
type TrialRequest struct {
	Email  string `json:"email" validate:"required,trial_email,trial_email_length" example:"trader@example.com"`
	Source string `json:"source,omitempty" example:"landing#trial"`
}

// SourceOrDefault returns the submitted source label, or DefaultTrialSource when empty.
func (r *TrialRequest) SourceOrDefault() string {
	if r.Source == "" {
		return DefaultTrialSource
	}
	return r.Source
}

// TrialNotification is the relay payload built from an accepted submission.
type TrialNotification struct {
	Email       string
	Source      string
	SubmittedAt time.Time
}

// TrialResult describes a successful submission.
type TrialResult struct {
	// Relayed is false when no webhook destination is configured.
	Relayed bool
}

// TrialNotifier delivers notifications to the external webhook destination.
type TrialNotifier interface {
	// Configured reports whether a destination is set.
	Configured() bool
	Notify(ctx context.Context, n TrialNotification) error
}

// TrialUsecase defines the free-trial intake operations
type TrialUsecase interface {
	// SubmitTrial validates the request and relays it to the configured webhook
	SubmitTrial(ctx context.Context, req *TrialRequest) (*TrialResult, error)
}
