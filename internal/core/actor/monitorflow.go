package actor

import (
	"fmt"
	"time"

	"github.com/example/monitorctl/internal/config"
	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/events"
	. "github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// MonitorFlowActor polls monitor state on a timer and publishes per-entity
// update events to the event stream, which feeds the MQTT bridge.
type MonitorFlowActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	ddcActor    *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream

	logger *zap.Logger
}

type monitorFlowTick struct {
}

func NewMonitorFlowActor(config *config.Config, ddcActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *MonitorFlowActor {
	act := &MonitorFlowActor{
		config:      config,
		ddcActor:    ddcActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_MONITORFLOW, logger),
		eventStream: eventStream,
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *MonitorFlowActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MonitorFlowActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("monitorflow@default started")

		if state.config.Monitor.PollIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(time.Duration(state.config.Monitor.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorFlowTick{})
		}
	case domain.ActorHealthRequest:
		state.logger.Debug("monitorflow@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MONITORFLOW,
			Healthy: true,
			State:   "idle",
		})
	case monitorFlowTick:
		state.logger.Debug("monitorflow@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.ddcActor, domain.ReadMonitorStatesRequest{}, 30*time.Second), func(err error) any {
			return domain.ReadMonitorStatesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})

		// schedule next tick
		state.scheduler.RequestOnce(time.Duration(state.config.Monitor.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorFlowTick{})
		state.behavior.BecomeStacked(state.WaitingStatesReceive)
	default:
		state.logger.Debug("monitorflow@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorFlowActor) WaitingStatesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ReadMonitorStatesResponse:
		if msg.HasResponseError() {
			state.logger.Error("monitorflow@waiting ReadMonitorStatesResponse error", zap.Error(msg.GetResponseError()))
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("monitorflow@waiting ReadMonitorStatesResponse", zap.Int("monitors", len(msg.States)))
		for _, ev := range events.MonitorStatesToUpdateEvents(msg.States) {
			state.eventStream.Publish(ev)
		}

		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("monitorflow@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}
