package actor

import (
	"testing"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/events"
	"github.com/example/monitorctl/internal/core/service"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProfileActorAnnouncesAppliedProfile(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	logger := zap.NewNop()
	controller, _ := newTestController(t, logger)
	profiles := service.NewProfileManager(t.TempDir(), controller, logger)

	es := &eventstream.EventStream{}
	announced := make(chan domain.TextSensorUpdateEvent, 4)
	es.Subscribe(func(evt interface{}) {
		if ev, ok := evt.(domain.TextSensorUpdateEvent); ok {
			announced <- ev
		}
	})

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(profiles, es, logger)
	})
	pid := context.Spawn(props)

	res, err := context.RequestFuture(pid, domain.ApplyProfileRequest{Name: "day"}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := res.(domain.ApplyProfileResponse)
	assert.True(t, ok)
	assert.True(t, resp.Applied, "default profile applies")

	select {
	case ev := <-announced:
		assert.Equal(t, events.SENSOR_ID_ACTIVE_PROFILE, ev.SensorId())
		assert.Equal(t, "day", ev.Value)
	case <-time.After(5 * time.Second):
		t.Error("no active profile event published")
	}

	context.Stop(pid)

	as.Shutdown()
}

func TestProfileActorNoEventOnMissingProfile(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	logger := zap.NewNop()
	controller, _ := newTestController(t, logger)
	profiles := service.NewProfileManager(t.TempDir(), controller, logger)

	es := &eventstream.EventStream{}
	announced := make(chan domain.TextSensorUpdateEvent, 4)
	es.Subscribe(func(evt interface{}) {
		if ev, ok := evt.(domain.TextSensorUpdateEvent); ok {
			announced <- ev
		}
	})

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(profiles, es, logger)
	})
	pid := context.Spawn(props)

	res, err := context.RequestFuture(pid, domain.ApplyProfileRequest{Name: "cinema"}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := res.(domain.ApplyProfileResponse)
	assert.True(t, ok)
	assert.False(t, resp.Applied)

	select {
	case ev := <-announced:
		t.Errorf("unexpected event for unapplied profile: %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}

	context.Stop(pid)

	as.Shutdown()
}
