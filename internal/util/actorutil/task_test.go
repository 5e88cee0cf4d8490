package actorutil

import (
	"errors"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

type taskOutcome struct {
	tag string
	err error
}

func taskContext(t *testing.T) (*actor.ActorSystem, actor.Context) {
	t.Helper()

	as := actor.NewActorSystem()
	received := make(chan actor.Context, 1)
	props := actor.PropsFromFunc(func(ctx actor.Context) {
		if _, ok := ctx.Message().(*actor.Started); ok {
			received <- ctx
		}
	})
	as.Root.Spawn(props)
	return as, <-received
}

func TestBackgroundTaskSuccessValueDelivered(t *testing.T) {

	assert := assert.New(t)

	as, ctx := taskContext(t)
	defer as.Shutdown()

	var got taskOutcome
	NewBackgroundTaskNoError(ctx, func() *taskOutcome {
		return &taskOutcome{tag: "done"}
	}).OnSuccess(func(v taskOutcome) {
		got = v
	}).Run()

	assert.Equal("done", got.tag, "success value")
}

func TestBackgroundTaskRecoveredValueDelivered(t *testing.T) {

	assert := assert.New(t)

	as, ctx := taskContext(t)
	defer as.Shutdown()

	taskErr := errors.New("transport down")
	var got taskOutcome
	NewBackgroundTask(ctx, func() (*taskOutcome, error) {
		return nil, taskErr
	}).Recover(func(err error) taskOutcome {
		return taskOutcome{tag: "recovered", err: err}
	}).OnSuccess(func(v taskOutcome) {
		got = v
	}).Run()

	assert.Equal("recovered", got.tag, "recovered value, not the zero value")
	assert.Equal(taskErr, got.err, "original error carried through")
}

func TestBackgroundTaskTimeoutRecovered(t *testing.T) {

	assert := assert.New(t)

	as, ctx := taskContext(t)
	defer as.Shutdown()

	var got taskOutcome
	NewBackgroundTaskNoError(ctx, func() *taskOutcome {
		time.Sleep(500 * time.Millisecond)
		return &taskOutcome{tag: "late"}
	}).Recover(func(err error) taskOutcome {
		return taskOutcome{tag: "timeout", err: err}
	}).WithTimeout(50 * time.Millisecond).OnSuccess(func(v taskOutcome) {
		got = v
	}).Run()

	assert.Equal("timeout", got.tag, "timeout surfaces through the recover handler")
	assert.Error(got.err, "timeout error carried")
}
