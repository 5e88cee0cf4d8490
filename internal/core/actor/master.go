package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/example/monitorctl/internal/adapter/actor"
	"github.com/example/monitorctl/internal/config"
	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/port"
	"github.com/example/monitorctl/internal/core/service"
	. "github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type DDCActorProvider func() *adactor.DDCActor

type MQTTActorProvider func() *adactor.MQTTActor

// MasterActor spawns and supervises the actor tree and owns the settings
// store. Everything reaches its sibling through the master's routing, so the
// tree has one wiring point.
type MasterActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck healthCheckResult
	eventStream        *eventstream.EventStream
	settings           *service.SettingsStore
	profiles           *service.ProfileManager
	keySource          port.KeySource

	ddcActor         *actor.PID
	profileActor     *actor.PID
	hotkeyActor      *actor.PID
	scheduleActor    *actor.PID
	monitorFlowActor *actor.PID
	mqttActor        *actor.PID

	ddcActorProvider  DDCActorProvider
	mqttActorProvider MQTTActorProvider
	logger            *zap.Logger
}

type healthCheckResult struct {
	healthy        map[string]bool
	expected       []string
	checksReceived int
	respondTo      *actor.PID
}

func NewMasterActor(config config.Config, settings *service.SettingsStore, profiles *service.ProfileManager,
	keySource port.KeySource, ddcActorProvider DDCActorProvider, mqttActorProvider MQTTActorProvider,
	logger *zap.Logger) *MasterActor {
	act := &MasterActor{
		config:            config,
		behavior:          actor.NewBehavior(),
		stash:             &Stash{},
		logger:            ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:       &eventstream.EventStream{},
		settings:          settings,
		profiles:          profiles,
		keySource:         keySource,
		ddcActorProvider:  ddcActorProvider,
		mqttActorProvider: mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		if err := state.settings.Load(); err != nil {
			panic(err)
		}
		settings := state.settings.Get()

		state.currentHealthCheck = healthCheckResult{}

		// start DDC child
		ddcActorPID, err := state.startDDCActor(ctx)
		if err != nil {
			panic(err)
		}
		state.ddcActor = ddcActorPID

		// start Profile child
		profileActorPID, err := state.startProfileActor(ctx)
		if err != nil {
			panic(err)
		}
		state.profileActor = profileActorPID

		// start Hotkey child
		if state.keySource != nil {
			hotkeyActorPID, err := state.startHotkeyActor(ctx, settings)
			if err != nil {
				panic(err)
			}
			state.hotkeyActor = hotkeyActorPID
		}

		// start Schedule child
		scheduleActorPID, err := state.startScheduleActor(ctx, settings)
		if err != nil {
			panic(err)
		}
		state.scheduleActor = scheduleActorPID

		if state.config.MQTT.Enable {
			// start MQTT child
			mqttActorPID, err := state.startMQTTActor(ctx)
			if err != nil {
				panic(err)
			}
			state.mqttActor = mqttActorPID

			// start MonitorFlow child
			monitorFlowActorPID, err := state.startMonitorFlowActor(ctx)
			if err != nil {
				panic(err)
			}
			state.monitorFlowActor = monitorFlowActorPID

			// route entity update events to the MQTT child
			root := ctx.ActorSystem().Root
			mqttPID := state.mqttActor
			state.eventStream.Subscribe(func(evt interface{}) {
				if ev, ok := evt.(domain.SensorUpdateEvent); ok {
					root.Send(mqttPID, domain.PublishSensorUpdateRequest{Event: ev})
				}
			})

			// start HA Discovery
			if state.config.MQTT.HADiscoveryEnable {
				_, err := state.startHADiscoveryActor(ctx)
				if err != nil {
					panic(err)
				}
			}
		}

		// restore the default profile on boot
		if settings.AutoApplyOnStartup && settings.DefaultProfile != "" {
			ctx.Send(state.profileActor, domain.ApplyProfileRequest{Name: settings.DefaultProfile})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset(state.healthCheckTargets())
		state.currentHealthCheck.respondTo = ctx.Sender()
		for id, pid := range state.healthCheckTargets() {
			childId := id
			PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
				return domain.ActorHealthResponse{
					Id:      childId,
					Healthy: false,
				}
			})
		}

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.GetSettingsRequest:
		state.logger.Debug("master@default GetSettingsRequest")
		ForRequest(msg).Respond(ctx, domain.GetSettingsResponse{
			Settings: state.settings.Get(),
		})
	case domain.UpdateSettingsRequest:
		state.logger.Debug("master@default UpdateSettingsRequest")
		err := state.settings.Update(msg.Settings)
		ForRequest(msg).Respond(ctx, domain.UpdateSettingsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		})
		if err == nil {
			reload := domain.ReloadBindingsRequest{Settings: msg.Settings}
			if state.hotkeyActor != nil {
				ctx.Send(state.hotkeyActor, reload)
			}
			ctx.Send(state.scheduleActor, reload)
		}
	case domain.DetectMonitorsRequest:
		ctx.Forward(state.ddcActor)
	case domain.GetFeatureRequest:
		ctx.Forward(state.ddcActor)
	case domain.SetFeatureRequest:
		ctx.Forward(state.ddcActor)
	case domain.GetSupportedFeaturesRequest:
		ctx.Forward(state.ddcActor)
	case domain.ReadMonitorStatesRequest:
		ctx.Forward(state.ddcActor)
	case domain.AdjustAllBrightnessRequest:
		ctx.Forward(state.ddcActor)
	case domain.ApplyProfileRequest:
		ctx.Forward(state.profileActor)
	case domain.SnapshotProfileRequest:
		ctx.Forward(state.profileActor)
	case domain.DeleteProfileRequest:
		ctx.Forward(state.profileActor)
	case domain.ListProfilesRequest:
		ctx.Forward(state.profileActor)
	case adactor.ParsedCommand:
		// redirect parsedCommand to actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			cmd, err := ParsedMQTTCommandToCommand(*msg.Command)
			if err == nil && cmd != nil {
				switch pcmd := cmd.(type) {
				case domain.SetFeatureRequest:
					ctx.Send(state.ddcActor, pcmd)
				case domain.ApplyProfileRequest:
					ctx.Send(state.profileActor, pcmd)
				}
			}
		}
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_DDC) {
			state.logger.Error("master@default ddc error")
			panic(errors.New("ddc terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			state.currentHealthCheck.healthy[msg.Id] = true
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterActor) healthCheckTargets() map[string]*actor.PID {
	targets := map[string]*actor.PID{
		domain.ACTOR_ID_DDC:     state.ddcActor,
		domain.ACTOR_ID_PROFILE: state.profileActor,
	}
	if state.mqttActor != nil {
		targets[domain.ACTOR_ID_MQTT] = state.mqttActor
	}
	return targets
}

func (state *MasterActor) startDDCActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	ddcProps := actor.PropsFromProducer(func() actor.Actor {
		return state.ddcActorProvider()
	}, actor.WithSupervisor(supervisor))
	ddcActorPID, err := ctx.SpawnNamed(ddcProps, domain.ACTOR_ID_DDC)
	if err != nil {
		return nil, err
	}

	return ddcActorPID, nil
}

func (state *MasterActor) startProfileActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	profileProps := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(state.profiles, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	profileActorPID, err := ctx.SpawnNamed(profileProps, domain.ACTOR_ID_PROFILE)
	if err != nil {
		return nil, err
	}

	return profileActorPID, nil
}

func (state *MasterActor) startHotkeyActor(ctx actor.Context, settings domain.Settings) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	hotkeyProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHotkeyActor(state.keySource, settings, state.profileActor, state.ddcActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	hotkeyActorPID, err := ctx.SpawnNamed(hotkeyProps, domain.ACTOR_ID_HOTKEY)
	if err != nil {
		return nil, err
	}

	return hotkeyActorPID, nil
}

func (state *MasterActor) startScheduleActor(ctx actor.Context, settings domain.Settings) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	scheduleProps := actor.PropsFromProducer(func() actor.Actor {
		return NewScheduleActor(settings, state.profileActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	scheduleActorPID, err := ctx.SpawnNamed(scheduleProps, domain.ACTOR_ID_SCHEDULE)
	if err != nil {
		return nil, err
	}

	return scheduleActorPID, nil
}

func (state *MasterActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider()
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *MasterActor) startMonitorFlowActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewAllForOneStrategy(1, 10*time.Second, decider)

	monitorFlowProps := actor.PropsFromProducer(func() actor.Actor {
		return NewMonitorFlowActor(&state.config, state.ddcActor, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	monitorFlowActorPID, err := ctx.SpawnNamed(monitorFlowProps, domain.ACTOR_ID_MONITORFLOW)
	if err != nil {
		return nil, err
	}

	return monitorFlowActorPID, nil
}

func (state *MasterActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.ddcActor, state.mqttActor, state.profileActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *healthCheckResult) reset(targets map[string]*actor.PID) {
	state.healthy = map[string]bool{}
	state.expected = state.expected[:0]
	for id := range targets {
		state.expected = append(state.expected, id)
	}
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == len(state.expected)
}

func (state *healthCheckResult) allHealthy() bool {
	for _, id := range state.expected {
		if !state.healthy[id] {
			return false
		}
	}
	return true
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
