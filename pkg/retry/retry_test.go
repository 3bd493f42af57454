package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRetryableError struct {
	msg       string
	retryable bool
}

func (e *fakeRetryableError) Error() string     { return e.msg }
func (e *fakeRetryableError) IsRetryable() bool { return e.retryable }

func TestDoWithResult_SucceedsAfterRetries(t *testing.T) {
	cfg := &Config{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	result, err := DoWithResult(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &fakeRetryableError{msg: "HTTP 503", retryable: true}
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoWithResult_NonRetryableFailsImmediately(t *testing.T) {
	cfg := &Config{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	wantErr := &fakeRetryableError{msg: "HTTP 400", retryable: false}
	_, err := DoWithResult(context.Background(), cfg, func() (string, error) {
		calls++
		return "", wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}

func TestDoWithResult_ExhaustsAttempts(t *testing.T) {
	cfg := &Config{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	wantErr := &fakeRetryableError{msg: "HTTP 503", retryable: true}
	_, err := DoWithResult(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want last error", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoWithResult_ExponentialDelays(t *testing.T) {
	base := 20 * time.Millisecond
	cfg := &Config{MaxAttempts: 3, BaseDelay: base}

	var timestamps []time.Time
	_, _ = DoWithResult(context.Background(), cfg, func() (int, error) {
		timestamps = append(timestamps, time.Now())
		return 0, &fakeRetryableError{msg: "HTTP 503", retryable: true}
	})

	if len(timestamps) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(timestamps))
	}

	first := timestamps[1].Sub(timestamps[0])
	second := timestamps[2].Sub(timestamps[1])
	if first < base {
		t.Errorf("first delay %v shorter than base %v", first, base)
	}
	if second < 2*base {
		t.Errorf("second delay %v shorter than 2*base %v", second, 2*base)
	}
}

func TestDoWithResult_ContextCancelDuringWait(t *testing.T) {
	cfg := &Config{MaxAttempts: 3, BaseDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := DoWithResult(ctx, cfg, func() (int, error) {
		calls++
		return 0, &fakeRetryableError{msg: "HTTP 503", retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", calls)
	}
}

func TestIsRetryable_PlainError(t *testing.T) {
	if IsRetryable(errors.New("boom")) {
		t.Error("plain errors must not be retryable")
	}
}

func TestIsRetryable_Wrapped(t *testing.T) {
	inner := &fakeRetryableError{msg: "HTTP 503", retryable: true}
	wrapped := errorWrap{inner}
	if !IsRetryable(wrapped) {
		t.Error("wrapped retryable error not recognized")
	}
}

type errorWrap struct{ inner error }

func (w errorWrap) Error() string { return "wrapped: " + w.inner.Error() }
func (w errorWrap) Unwrap() error { return w.inner }
