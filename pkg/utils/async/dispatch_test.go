package async_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func waitOrFail(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Async handler did not complete within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("Execute handler asynchronously", func(t *testing.T) {
		var wg sync.WaitGroup
		executed := false

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			executed = true
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.True(t, executed)
	})

	t.Run("Handle errors in async handler", func(t *testing.T) {
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			return goerr.New("test error")
		})

		waitOrFail(t, &wg, time.Second)
	})

	t.Run("Recover from panic in async handler", func(t *testing.T) {
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			panic("test panic")
		})

		waitOrFail(t, &wg, time.Second)
	})

	t.Run("Multiple async dispatches", func(t *testing.T) {
		var wg sync.WaitGroup
		var mu sync.Mutex
		counter := 0

		for i := 0; i < 10; i++ {
			wg.Add(1)
			async.Dispatch(context.Background(), func(ctx context.Context) error {
				defer wg.Done()
				mu.Lock()
				counter++
				mu.Unlock()
				return nil
			})
		}

		waitOrFail(t, &wg, 2*time.Second)
		gt.Equal(t, counter, 10)
	})
}

func TestContextPreservation(t *testing.T) {
	t.Run("AuthContext is preserved", func(t *testing.T) {
		authCtx := &model.AuthContext{
			UserID:    types.UserID("usr_123456789abc"),
			SessionID: types.SessionID("session-789"),
			Role:      types.RoleEventManager,
		}
		ctx := model.WithAuthContext(context.Background(), authCtx)

		var wg sync.WaitGroup
		var preserved *model.AuthContext

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			preserved, _ = model.GetAuthContext(ctx)
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.NotNil(t, preserved)
		gt.Equal(t, preserved.UserID, authCtx.UserID)
		gt.Equal(t, preserved.SessionID, authCtx.SessionID)
		gt.Equal(t, preserved.Role, authCtx.Role)
	})

	t.Run("Logger is preserved in background context", func(t *testing.T) {
		ctx := ctxlog.With(context.Background(), ctxlog.From(context.Background()))

		var wg sync.WaitGroup
		hasLogger := false

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			hasLogger = ctxlog.From(ctx) != nil
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.True(t, hasLogger)
	})

	t.Run("Cancellation of the request does not reach the handler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var wg sync.WaitGroup
		var handlerErr error

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			handlerErr = ctx.Err()
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.NoError(t, handlerErr)
	})
}
