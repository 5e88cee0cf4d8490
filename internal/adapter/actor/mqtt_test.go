package actor

import (
	"testing"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/events"
	"github.com/example/monitorctl/internal/mqtt"
	"github.com/example/monitorctl/internal/util"
	"github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.NotNil(t, resp)

	context.Send(pid, domain.PublishSensorUpdateRequest{
		Event: domain.InputNumberSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
				Id: events.MonitorBrightnessId(4),
			},
			Value: 55,
		},
	})

	time.Sleep(1 * time.Second)

	context.Stop(pid)

	time.Sleep(1 * time.Second)

	as.Shutdown()
}

func TestEventToMQTTMessageMapping(t *testing.T) {

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	state := NewTestMQTTActor(&cfg, logger)
	state.client = mqtt.CreateMQTTClient(&cfg, mqtt.OptsFromConfig(&cfg), nil, nil)

	profile := state.event2MQTTMessage(events.ActiveProfileToUpdateEvent("gaming"))
	if profile == nil {
		t.Fatal("no mapping for active profile event")
	}
	assert.Equal(t, state.client.SensorStateTopic(events.SENSOR_ID_ACTIVE_PROFILE), profile.topic)
	assert.Equal(t, "gaming", profile.message)

	online := state.event2MQTTMessage(events.BridgeStateToUpdateEvent(true))
	if online == nil {
		t.Fatal("no mapping for bridge state event")
	}
	assert.Equal(t, state.client.BridgeStateTopic(), online.topic)
	assert.Equal(t, mqtt.MQTT_PAYLOAD_ONLINE, online.message)
	assert.True(t, online.retain, "availability topic is retained")

	offline := state.event2MQTTMessage(events.BridgeStateToUpdateEvent(false))
	assert.Equal(t, mqtt.MQTT_PAYLOAD_OFFLINE, offline.message)
}
