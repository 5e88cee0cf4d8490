package actor

import (
	"fmt"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/port"
	"github.com/example/monitorctl/internal/core/service"
	. "github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const brightnessHotkeyStepPct = 10

// HotkeyActor turns raw key events into profile and brightness commands.
// The key source pushes into this actor's mailbox, so matching happens on
// the actor goroutine and dispatch is a plain Send that never waits for the
// hardware to finish.
type HotkeyActor struct {
	behavior actor.Behavior
	source   port.KeySource
	matcher  *service.Matcher
	settings domain.Settings

	profileActor *actor.PID
	ddcActor     *actor.PID

	logger *zap.Logger
}

func NewHotkeyActor(source port.KeySource, settings domain.Settings, profileActor *actor.PID, ddcActor *actor.PID, logger *zap.Logger) *HotkeyActor {
	act := &HotkeyActor{
		source:       source,
		settings:     settings,
		profileActor: profileActor,
		ddcActor:     ddcActor,
		behavior:     actor.NewBehavior(),
		matcher:      service.NewMatcher(logger),
		logger:       ActorLogger(domain.ACTOR_ID_HOTKEY, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *HotkeyActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HotkeyActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hotkey@default started")
		state.applyBindings(state.settings)

		root := ctx.ActorSystem().Root
		self := ctx.Self()
		if err := state.source.Start(func(event domain.KeyEvent) {
			root.Send(self, event)
		}); err != nil {
			panic(err)
		}
	case *actor.Restarting:
		state.source.Stop()
	case *actor.Stopping:
		state.source.Stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("hotkey@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HOTKEY,
			Healthy: true,
			State:   "idle",
		})
	case domain.KeyEvent:
		if !msg.Press {
			state.matcher.KeyUp(msg.Key)
			return
		}
		for _, action := range state.matcher.KeyDown(msg.Key) {
			state.dispatch(ctx, action)
		}
	case domain.ReloadBindingsRequest:
		state.logger.Debug("hotkey@default ReloadBindingsRequest")
		state.settings = msg.Settings
		state.applyBindings(msg.Settings)
		state.matcher.Reset()
	default:
		state.logger.Debug("hotkey@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HotkeyActor) applyBindings(settings domain.Settings) {
	if settings.HotkeysEnabled {
		state.matcher.SetBindings(settings.Hotkeys)
	} else {
		state.matcher.SetBindings(nil)
	}
}

func (state *HotkeyActor) dispatch(ctx actor.Context, action string) {
	state.logger.Info("hotkey action", zap.String("action", action))
	switch action {
	case domain.ActionDayProfile:
		ctx.Send(state.profileActor, domain.ApplyProfileRequest{Name: "day"})
	case domain.ActionNightProfile:
		ctx.Send(state.profileActor, domain.ApplyProfileRequest{Name: "night"})
	case domain.ActionGamingProfile:
		ctx.Send(state.profileActor, domain.ApplyProfileRequest{Name: "gaming"})
	case domain.ActionBrightnessUp:
		ctx.Send(state.ddcActor, domain.AdjustAllBrightnessRequest{DeltaPct: brightnessHotkeyStepPct})
	case domain.ActionBrightnessDown:
		ctx.Send(state.ddcActor, domain.AdjustAllBrightnessRequest{DeltaPct: -brightnessHotkeyStepPct})
	default:
		state.logger.Warn("hotkey bound to unknown action", zap.String("action", action))
	}
}
