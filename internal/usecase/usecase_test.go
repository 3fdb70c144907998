package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"trial-intake-api/internal/domain"
	"trial-intake-api/internal/repository/webhook"
	"trial-intake-api/internal/usecase"
	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.TrialNotification) error {
	return m.Called(ctx, n).Error(0)
}

func requireAppError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func TestSubmitTrialValidation(t *testing.T) {
	notifier := new(MockNotifier)
	uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

	cases := map[string]*domain.TrialRequest{
		"missing email":  {},
		"nil request":    nil,
		"no at sign":     {Email: "not-an-email"},
		"no dot":         {Email: "trader@example"},
		"whitespace":     {Email: "tra der@example.com"},
		"too long":       {Email: strings.Repeat("a", 250) + "@b.co"},
		"source ignored": {Email: "bad", Source: "footer"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := uc.SubmitTrial(context.Background(), req)
			assert.Nil(t, res)
			requireAppError(t, err, http.StatusBadRequest, "Invalid email")
		})
	}

	// Validation failures never reach the notifier
	notifier.AssertNotCalled(t, "Configured")
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestSubmitTrialWithoutWebhook(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Configured").Return(false)
	uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

	res, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "trader@example.com"})
	require.NoError(t, err)
	assert.False(t, res.Relayed)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestSubmitTrialNilNotifier(t *testing.T) {
	uc := usecase.NewTrialUsecase(nil, validation.New(), nil)

	res, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "trader@example.com"})
	require.NoError(t, err)
	assert.False(t, res.Relayed)
}

func TestSubmitTrialRelay(t *testing.T) {
	t.Run("Should relay with given source", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Configured").Return(true)
		notifier.On("Notify", mock.Anything, mock.AnythingOfType("domain.TrialNotification")).Return(nil).Run(func(args mock.Arguments) {
			n := args.Get(1).(domain.TrialNotification)
			assert.Equal(t, "a@b.co", n.Email)
			assert.Equal(t, "footer", n.Source)
			assert.Equal(t, time.UTC, n.SubmittedAt.Location())
			assert.WithinDuration(t, time.Now(), n.SubmittedAt, 5*time.Second)
		})
		uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

		res, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "a@b.co", Source: "footer"})
		require.NoError(t, err)
		assert.True(t, res.Relayed)
		notifier.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("Should default the source", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Configured").Return(true)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n domain.TrialNotification) bool {
			return n.Source == domain.DefaultTrialSource
		})).Return(nil)
		uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

		_, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "a@b.co"})
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Should map rejected relay to 502 without retry", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Configured").Return(true)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(&webhook.StatusError{StatusCode: http.StatusInternalServerError})
		uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

		res, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "a@b.co"})
		assert.Nil(t, res)
		requireAppError(t, err, http.StatusBadGateway, "Discord webhook failed")
		notifier.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("Should map transport failure to generic 500", func(t *testing.T) {
		notifier := new(MockNotifier)
		notifier.On("Configured").Return(true)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("dial tcp 10.0.0.1:443: i/o timeout"))
		uc := usecase.NewTrialUsecase(notifier, validation.New(), nil)

		_, err := uc.SubmitTrial(context.Background(), &domain.TrialRequest{Email: "a@b.co"})
		requireAppError(t, err, http.StatusInternalServerError, "Internal error")
		assert.NotContains(t, err.Error(), "10.0.0.1")
	})
}

func TestHealthCheck(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Configured").Return(true)

	status := usecase.NewHealthUsecase(notifier, func(ctx context.Context) error {
		return errors.New("redis down")
	}).Check(context.Background())
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "configured", status["webhook"])
	assert.Equal(t, "unavailable", status["redis"])

	status = usecase.NewHealthUsecase(nil, nil).Check(context.Background())
	assert.Equal(t, "not_configured", status["webhook"])
	assert.Equal(t, "disabled", status["redis"])
}
