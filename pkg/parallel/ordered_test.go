package parallel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/wsn-resilience/pkg/logging"
)

func TestRunOrdered_PreservesIndexOrder(t *testing.T) {
	pool := newPool(t, 4)
	defer pool.Close()

	got, err := RunOrdered(context.Background(), pool, 20, func(_ context.Context, i int) (int, error) {
		// Later indices finish first
		time.Sleep(time.Duration(20-i) * 100 * time.Microsecond)
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("RunOrdered failed: %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Errorf("result[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestRunOrdered_JoinsTaskErrors(t *testing.T) {
	pool := newPool(t, 2)
	defer pool.Close()

	errOdd := errors.New("odd index")
	got, err := RunOrdered(context.Background(), pool, 6, func(_ context.Context, i int) (string, error) {
		if i%2 == 1 {
			return "", errOdd
		}
		return "ok", nil
	})
	if !errors.Is(err, errOdd) {
		t.Fatalf("error = %v, want errOdd", err)
	}
	if got[0] != "ok" || got[1] != "" {
		t.Errorf("results = %q", got)
	}
}

func TestRunOrdered_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	pool := newPool(t, 2, WithLogger(logging.NewJSONLogger(&buf, logging.ErrorLevel)))
	defer pool.Close()

	got, err := RunOrdered(context.Background(), pool, 3, func(_ context.Context, i int) (int, error) {
		if i == 1 {
			panic("boom")
		}
		return i + 10, nil
	})
	if !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("error = %v, want ErrTaskPanic", err)
	}
	if !strings.Contains(err.Error(), "task 1") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should name the task and the panic value", err)
	}
	if got[0] != 10 || got[2] != 12 {
		t.Errorf("results = %v, other tasks must still complete", got)
	}
	if !strings.Contains(buf.String(), "worker task panic recovered") {
		t.Error("pool did not log the panic")
	}

	// The pool survives the panic for the next batch
	again, err := RunOrdered(context.Background(), pool, 2, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	if err != nil || again[1] != 1 {
		t.Errorf("second batch = %v, %v", again, err)
	}
}

func TestRunOrdered_StopsOnCancel(t *testing.T) {
	pool := newPool(t, 1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var started int64
	_, err := RunOrdered(ctx, pool, 100, func(_ context.Context, i int) (int, error) {
		if atomic.AddInt64(&started, 1) == 3 {
			cancel()
		}
		return i, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if n := atomic.LoadInt64(&started); n >= 100 {
		t.Errorf("%d tasks started after cancellation, want fewer than 100", n)
	}
}

func TestRunOrdered_ClosedPool(t *testing.T) {
	pool := newPool(t, 1)
	pool.Close()

	_, err := RunOrdered(context.Background(), pool, 2, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("error = %v, want ErrPoolClosed", err)
	}
}
