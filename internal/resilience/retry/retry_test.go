package retry

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       50 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff_SuccessFirstAttempt(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithBackoff_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 500, Message: "Server Error"}
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return testErr
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if !errors.Is(err, testErr) {
		t.Error("expected wrapped error to contain original error")
	}
}

func TestWithBackoff_NonRetryableAbortsImmediately(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 404, Message: "Not Found"}
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return testErr
	})

	if err != testErr {
		t.Errorf("expected original error back, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithBackoff(ctx, fastConfig(), func() error {
		attempts++
		if attempts == 1 {
			cancel()
		}
		return &HTTPError{StatusCode: 500, Message: "Server Error"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "context canceled", err: context.Canceled, retryable: false},
		{name: "context deadline exceeded", err: context.DeadlineExceeded, retryable: false},
		{name: "HTTP 500", err: &HTTPError{StatusCode: 500, Message: "Internal Server Error"}, retryable: true},
		{name: "HTTP 502", err: &HTTPError{StatusCode: 502, Message: "Bad Gateway"}, retryable: true},
		{name: "HTTP 429", err: &HTTPError{StatusCode: 429, Message: "Too Many Requests"}, retryable: true},
		{name: "HTTP 408", err: &HTTPError{StatusCode: 408, Message: "Request Timeout"}, retryable: true},
		{name: "HTTP 400", err: &HTTPError{StatusCode: 400, Message: "Bad Request"}, retryable: false},
		{name: "HTTP 404", err: &HTTPError{StatusCode: 404, Message: "Not Found"}, retryable: false},
		{name: "ECONNREFUSED", err: syscall.ECONNREFUSED, retryable: true},
		{name: "ECONNRESET", err: syscall.ECONNRESET, retryable: true},
		{name: "ETIMEDOUT", err: syscall.ETIMEDOUT, retryable: true},
		{name: "ENETUNREACH", err: syscall.ENETUNREACH, retryable: true},
		{name: "generic error", err: errors.New("some error"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestPresetConfigs(t *testing.T) {
	if got := FeedFetchConfig().MaxAttempts; got != 5 {
		t.Errorf("FeedFetchConfig MaxAttempts = %d, want 5", got)
	}
	if got := ArticleFetchConfig().MaxAttempts; got != 3 {
		t.Errorf("ArticleFetchConfig MaxAttempts = %d, want 3", got)
	}
	if got := ArticleFetchConfig().MaxDelay; got != 10*time.Second {
		t.Errorf("ArticleFetchConfig MaxDelay = %v, want 10s", got)
	}
	if got := DBConfig().InitialDelay; got != 100*time.Millisecond {
		t.Errorf("DBConfig InitialDelay = %v, want 100ms", got)
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 502, Message: "Bad Gateway"}
	if err.Error() != "HTTP 502: Bad Gateway" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAddJitter(t *testing.T) {
	duration := 100 * time.Millisecond

	for i := 0; i < 10; i++ {
		result := addJitter(duration, 0.2)
		if result < duration || result > time.Duration(float64(duration)*1.2) {
			t.Errorf("jitter out of range: %v", result)
		}
	}

	if got := addJitter(duration, 0); got != duration {
		t.Errorf("expected unchanged duration with zero fraction, got %v", got)
	}
}
