package actor

import (
	"testing"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/util/actorutil"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spawnTestDDCActor(t *testing.T, transport *ddc.TestTransport) (*actor.ActorSystem, *actor.RootContext, *actor.PID) {
	t.Helper()

	logger := zap.NewNop()
	controller, err := ddc.NewController(transport, logger)
	require.NoError(t, err)

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDDCActor(controller, 2*time.Second, logger) })
	pid := context.Spawn(props)

	return as, context, pid
}

func TestDetectMonitorsDDCActor(t *testing.T) {

	assert := assert.New(t)

	as, context, pid := spawnTestDDCActor(t, ddc.NewDualMonitorTransport())

	result, err := context.RequestFuture(pid, domain.DetectMonitorsRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.DetectMonitorsResponse)

	assert.False(resp.HasResponseError(), "no error")
	assert.Len(resp.Monitors, 2, "monitor count")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetFeatureErrorPropagatesDDCActor(t *testing.T) {

	assert := assert.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.FailBuses[4] = true
	as, context, pid := spawnTestDDCActor(t, transport)

	result, err := context.RequestFuture(pid, domain.GetFeatureRequest{
		Bus:     4,
		Feature: ddc.FeatureBrightness,
	}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetFeatureResponse)

	assert.True(resp.HasResponseError(), "error is carried in the response")
	assert.Equal(resp.Bus, 4, "bus echoed")

	// the actor must still serve requests after a failed one
	result, err = context.RequestFuture(pid, domain.GetFeatureRequest{
		Bus:     6,
		Feature: ddc.FeatureBrightness,
	}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.GetFeatureResponse)
	assert.False(resp.HasResponseError(), "healthy bus unaffected")
	assert.Equal(resp.Value.Current, 40, "bus 6 brightness")

	context.Stop(pid)

	as.Shutdown()
}

func TestAdjustAllBrightnessClampsDDCActor(t *testing.T) {

	assert := assert.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.Values[4][ddc.FeatureBrightness] = ddc.FeatureValue{Current: 95, Maximum: 100}
	transport.Values[6][ddc.FeatureBrightness] = ddc.FeatureValue{Current: 5, Maximum: 100}
	as, context, pid := spawnTestDDCActor(t, transport)

	result, err := context.RequestFuture(pid, domain.AdjustAllBrightnessRequest{DeltaPct: 10}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.AdjustAllBrightnessResponse)
	assert.Equal(resp.Adjusted, 2, "both monitors adjusted")
	assert.Equal(resp.Skipped, 0, "none skipped")

	result, err = context.RequestFuture(pid, domain.AdjustAllBrightnessRequest{DeltaPct: -10}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.AdjustAllBrightnessResponse)
	assert.Equal(resp.Adjusted, 2, "both monitors adjusted")

	result, err = context.RequestFuture(pid, domain.AdjustAllBrightnessRequest{DeltaPct: -10}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.AdjustAllBrightnessResponse)
	assert.Equal(resp.Adjusted, 2, "both monitors adjusted")

	for _, call := range transport.SetCalls {
		assert.True(call.Value >= 0 && call.Value <= 100, "set value within percentage bounds")
	}
	// 95 +10 clamps at the ceiling, 5 -10 at the floor
	calls4 := transport.SetCallsFor(4)
	assert.Equal(calls4[0].Value, 100, "bus 4 clamped to 100")
	calls6 := transport.SetCallsFor(6)
	assert.Equal(calls6[len(calls6)-1].Value, 0, "bus 6 clamped to 0")

	context.Stop(pid)

	as.Shutdown()
}

func TestAdjustAllBrightnessSkipsFailingBusDDCActor(t *testing.T) {

	assert := assert.New(t)

	transport := ddc.NewDualMonitorTransport()
	transport.FailBuses[4] = true
	as, context, pid := spawnTestDDCActor(t, transport)

	result, err := context.RequestFuture(pid, domain.AdjustAllBrightnessRequest{DeltaPct: 10}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.AdjustAllBrightnessResponse)

	assert.Equal(resp.Adjusted, 1, "healthy monitor adjusted")
	assert.Equal(resp.Skipped, 1, "failing monitor skipped")
	assert.Empty(transport.SetCallsFor(4), "no writes to the failing bus")
	assert.Len(transport.SetCallsFor(6), 1, "one write to the healthy bus")

	context.Stop(pid)

	as.Shutdown()
}
