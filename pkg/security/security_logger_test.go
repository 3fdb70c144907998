package security

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "t***@example.com", MaskEmail("trader@example.com"))
	assert.Equal(t, "***@b.co", MaskEmail("a@b.co"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, HashValue("not-an-email"), MaskEmail("not-an-email"))
	assert.Equal(t, "é***@x.io", MaskEmail("éric@x.io"))
}

func TestLogTrialEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "trial-intake-api", "test")

	meta := RequestMeta{IP: "203.0.113.7", UserAgent: "curl/8", RequestID: "req-1"}
	sl.LogTrialEvent(context.Background(), EventTrialRelayFailed, "trader@example.com", meta, map[string]interface{}{"status": 500})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "trial_relay_failed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "t***@example.com", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, `{"status":500}`, fields["details"])
}

func TestLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "svc", "test")

	sl.LogTrialEvent(context.Background(), EventTrialRelayed, "a@b.co", RequestMeta{}, nil)
	sl.LogRateLimitTriggered(context.Background(), "198.51.100.1", "", "", "/api/trial")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var sl *SecurityLogger
	assert.NotPanics(t, func() {
		sl.LogTrialEvent(context.Background(), EventTrialSubmitted, "a@b.co", RequestMeta{}, nil)
	})
	assert.NoError(t, sl.Sync())
}

func TestRequestMetaRoundTrip(t *testing.T) {
	meta := RequestMeta{IP: "192.0.2.1", UserAgent: "ua", RequestID: "rid"}
	ctx := WithRequestMeta(context.Background(), meta)

	assert.Equal(t, meta, MetaFromContext(ctx))
	assert.Equal(t, RequestMeta{}, MetaFromContext(context.Background()))
}

func TestDefaultLoggerConcurrentFirstUse(t *testing.T) {
	defaultMu.Lock()
	prev := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLogger = prev
		defaultMu.Unlock()
	})

	const n = 16
	got := make([]*SecurityLogger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = DefaultLogger()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, sl := range got {
		assert.Same(t, got[0], sl)
	}
}
