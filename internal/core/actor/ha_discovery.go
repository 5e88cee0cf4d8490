package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/monitorctl/internal/config"
	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/events"
	"github.com/example/monitorctl/internal/util/actorutil"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes the Home Assistant discovery documents once the
// DDC and MQTT children are healthy, then goes quiet.
type HADiscoveryActor struct {
	config           *config.Config
	behavior         actor.Behavior
	stash            *actorutil.Stash
	ddcActor         *actor.PID
	mqttActor        *actor.PID
	profileActor     *actor.PID
	ddcActorHealthy  bool
	mqttActorHealthy bool
	healthyRecv      int
	monitors         []ddc.Monitor

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, ddcActor *actor.PID, mqttActor *actor.PID, profileActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:       config,
		ddcActor:     ddcActor,
		mqttActor:    mqttActor,
		profileActor: profileActor,
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check DDC and MQTT actor healthy
		state.healthyRecv = 0
		state.ddcActorHealthy = false
		state.mqttActorHealthy = false
		// DDC Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.ddcActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_DDC,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_DDC:
				state.ddcActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.ddcActorHealthy && state.mqttActorHealthy {
				// Ask DDC for the monitor list
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.ddcActor, domain.DetectMonitorsRequest{}, 30*time.Second), func(err error) any {
					return domain.DetectMonitorsResponse{
						ActorResponseMixIn: domain.ActorResponseMixIn{
							ResponseError: err,
						},
					}
				})
				state.behavior.Become(state.WaitingMonitorsReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or DDC Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingMonitorsReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.DetectMonitorsResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@monitors: DetectMonitorsResponse", zap.Int("monitors", len(msg.Monitors)))
		state.monitors = msg.Monitors

		// Ask the profile store which buttons to expose
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.profileActor, domain.ListProfilesRequest{}, 5*time.Second), func(err error) any {
			return domain.ListProfilesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingProfilesReceive)
	default:
		state.logger.Debug("hadiscovery@monitors: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) WaitingProfilesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ListProfilesResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@profiles: ListProfilesResponse", zap.Int("profiles", len(msg.Profiles)))

		var sensors []domain.GenericSensor
		var inputNumbers []domain.GenericInputNumber
		var buttons []domain.GenericButton

		bridgeDevice := events.BridgeDevice(state.config.MQTT.BaseTopic)
		sensors = append(sensors, events.BridgeSensors(bridgeDevice)...)

		for _, monitor := range state.monitors {
			monitorDevice := events.MonitorDevice(bridgeDevice, monitor)
			monitorNumbers := events.MonitorInputNumbers(monitorDevice, monitor)
			for i := range monitorNumbers {
				if i > 0 {
					monitorNumbers[i].Device = events.IdDevice(monitorDevice)
				}
				inputNumbers = append(inputNumbers, monitorNumbers[i])
			}
		}

		buttons = append(buttons, events.ProfileButtons(events.IdDevice(bridgeDevice), msg.Profiles)...)

		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors:      sensors,
			InputNumbers: inputNumbers,
			Buttons:      buttons,
		})
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@profiles: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {

}
