package relayfx

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/relay"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func TestModuleProvidesDispatcher(t *testing.T) {
	var d *relay.Dispatcher[int]

	app := fxtest.New(t,
		Module[int]("counter", relay.WithPolicy(relay.Isolate)),
		fx.Populate(&d),
		fx.NopLogger,
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, d)
	var got int
	d.AddFunc(relay.Func(func(n int) { got = n }))
	require.NoError(t, d.Notify(context.Background(), 9))
	assert.Equal(t, 9, got)
}

func TestModuleStopDrainsAsync(t *testing.T) {
	var d *relay.Dispatcher[int]
	app := fxtest.New(t,
		Module[int]("drain"),
		fx.Populate(&d),
		Logger(zaptest.NewLogger(t)),
	)
	app.RequireStart()

	var finished atomic.Bool
	d.AddFunc(relay.Func(func(int) {
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	}))
	d.NotifyAsync(context.Background(), 0)

	app.RequireStop()
	assert.True(t, finished.Load())
}

func TestModuleStopTimeout(t *testing.T) {
	var d *relay.Dispatcher[int]
	app := fx.New(
		Module[int]("stuck"),
		fx.Populate(&d),
		fx.NopLogger,
	)
	require.NoError(t, app.Start(context.Background()))

	release := make(chan struct{})
	defer close(release)
	d.AddFunc(relay.Func(func(int) { <-release }))
	d.NotifyAsync(context.Background(), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, app.Stop(ctx), context.DeadlineExceeded)
}

func TestModulesAreIndependent(t *testing.T) {
	var ints *relay.Dispatcher[int]
	var strs *relay.Dispatcher[string]

	app := fxtest.New(t,
		Module[int]("ints"),
		Module[string]("strings"),
		fx.Populate(&ints, &strs),
		fx.NopLogger,
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, ints)
	require.NotNil(t, strs)
}
