package actor

import (
	"fmt"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/port"
	"github.com/example/monitorctl/internal/util/actorutil"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// DDCActor serializes all access to the DDC/CI transport. Requests arriving
// while a hardware call is in flight are stashed, so the bus never sees two
// concurrent conversations.
type DDCActor struct {
	behavior   actor.Behavior
	stash      *actorutil.Stash
	controller port.MonitorController
	timeout    time.Duration
	logger     *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewDDCActor(controller port.MonitorController, timeout time.Duration, logger *zap.Logger) *DDCActor {
	act := &DDCActor{
		controller: controller,
		timeout:    timeout,
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger(domain.ACTOR_ID_DDC, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *DDCActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DDCActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("ddc@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_DDC,
			Healthy: true,
			State:   "idle",
		})
	case domain.DetectMonitorsRequest:
		state.logger.Debug("ddc@default: DetectMonitorsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.detectMonitors),
			mapTaskResult[domain.DetectMonitorsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.DetectMonitorsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	case domain.GetFeatureRequest:
		state.logger.Debug("ddc@default: GetFeatureRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.GetFeatureResponse, error) {
			return state.getFeature(msg.Bus, msg.Feature)
		}),
			mapTaskResult[domain.GetFeatureResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetFeatureResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Bus:     msg.Bus,
					Feature: msg.Feature,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	case domain.SetFeatureRequest:
		state.logger.Debug("ddc@default: SetFeatureRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.SetFeatureResponse, error) {
			return state.setFeature(msg.Bus, msg.Feature, msg.Value)
		}),
			mapTaskResult[domain.SetFeatureResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SetFeatureResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Bus:     msg.Bus,
					Feature: msg.Feature,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	case domain.GetSupportedFeaturesRequest:
		state.logger.Debug("ddc@default: GetSupportedFeaturesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.GetSupportedFeaturesResponse {
			return state.getSupportedFeatures(msg.Bus)
		}),
			mapTaskResult[domain.GetSupportedFeaturesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetSupportedFeaturesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Bus: msg.Bus,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	case domain.ReadMonitorStatesRequest:
		state.logger.Debug("ddc@default: ReadMonitorStatesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.readMonitorStates),
			mapTaskResult[domain.ReadMonitorStatesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.ReadMonitorStatesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(2 * state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	case domain.AdjustAllBrightnessRequest:
		state.logger.Debug("ddc@default: AdjustAllBrightnessRequest", zap.Int("delta", msg.DeltaPct))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.AdjustAllBrightnessResponse, error) {
			return state.adjustAllBrightness(msg.DeltaPct)
		}),
			mapTaskResult[domain.AdjustAllBrightnessResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.AdjustAllBrightnessResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(2 * state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingTransport)
	default:
		state.logger.Debug("ddc@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *DDCActor) WaitingTransport(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("ddc@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("ddc@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *DDCActor) detectMonitors() (*domain.DetectMonitorsResponse, error) {
	monitors, err := a.controller.DetectMonitors()
	if err != nil {
		a.logger.Error("detect failed", zap.Error(err))
		return nil, err
	}
	return &domain.DetectMonitorsResponse{
		Monitors: monitors,
	}, nil
}

func (a *DDCActor) getFeature(bus int, feature ddc.Feature) (*domain.GetFeatureResponse, error) {
	value, err := a.controller.GetValue(ddc.Monitor{Bus: bus}, feature)
	if err != nil {
		a.logger.Error("get feature failed", zap.Int("bus", bus), zap.Error(err))
		return nil, err
	}
	return &domain.GetFeatureResponse{
		Bus:     bus,
		Feature: feature,
		Value:   value,
	}, nil
}

func (a *DDCActor) setFeature(bus int, feature ddc.Feature, value int) (*domain.SetFeatureResponse, error) {
	err := a.controller.SetValue(ddc.Monitor{Bus: bus}, feature, clampPercent(value))
	if err != nil {
		a.logger.Error("set feature failed", zap.Int("bus", bus), zap.Error(err))
		return nil, err
	}
	return &domain.SetFeatureResponse{
		Bus:     bus,
		Feature: feature,
	}, nil
}

func (a *DDCActor) getSupportedFeatures(bus int) *domain.GetSupportedFeaturesResponse {
	features := a.controller.GetSupportedFeatures(ddc.Monitor{Bus: bus})
	return &domain.GetSupportedFeaturesResponse{
		Bus:      bus,
		Features: features,
	}
}

// readMonitorStates detects and reads every monitor in one pass. Monitors
// that fail to answer are left out instead of failing the whole read.
func (a *DDCActor) readMonitorStates() (*domain.ReadMonitorStatesResponse, error) {
	monitors, err := a.controller.DetectMonitors()
	if err != nil {
		a.logger.Error("state read: detect failed", zap.Error(err))
		return nil, err
	}
	states := make([]domain.MonitorState, 0, len(monitors))
	for _, mon := range monitors {
		brightness, err := a.controller.GetBrightness(mon)
		if err != nil {
			a.logger.Debug("state read: brightness failed", zap.Int("bus", mon.Bus), zap.Error(err))
			continue
		}
		contrast, err := a.controller.GetContrast(mon)
		if err != nil {
			a.logger.Debug("state read: contrast failed", zap.Int("bus", mon.Bus), zap.Error(err))
			continue
		}
		states = append(states, domain.MonitorState{
			Bus:           mon.Bus,
			Name:          mon.Name,
			BrightnessPct: statePercent(brightness),
			ContrastPct:   statePercent(contrast),
		})
	}
	return &domain.ReadMonitorStatesResponse{
		States: states,
	}, nil
}

// adjustAllBrightness sweeps every detected monitor, shifting brightness by
// delta percentage points with clamping. Unreadable or unwritable monitors
// are counted as skipped.
func (a *DDCActor) adjustAllBrightness(delta int) (*domain.AdjustAllBrightnessResponse, error) {
	monitors, err := a.controller.DetectMonitors()
	if err != nil {
		a.logger.Error("adjust: detect failed", zap.Error(err))
		return nil, err
	}
	adjusted := 0
	skipped := 0
	for _, mon := range monitors {
		value, err := a.controller.GetBrightness(mon)
		if err != nil {
			a.logger.Debug("adjust: read failed", zap.Int("bus", mon.Bus), zap.Error(err))
			skipped++
			continue
		}
		target := clampPercent(statePercent(value) + delta)
		if err := a.controller.SetBrightness(mon, target); err != nil {
			a.logger.Debug("adjust: write failed", zap.Int("bus", mon.Bus), zap.Error(err))
			skipped++
			continue
		}
		adjusted++
	}
	return &domain.AdjustAllBrightnessResponse{
		Adjusted: adjusted,
		Skipped:  skipped,
	}, nil
}

// statePercent matches the snapshot behavior: a reading with no usable
// maximum is reported as the midpoint.
func statePercent(v ddc.FeatureValue) int {
	if v.Maximum <= 0 {
		return 50
	}
	return v.Percent()
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
