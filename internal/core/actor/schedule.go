package actor

import (
	"context"
	"fmt"

	"github.com/example/monitorctl/internal/core/domain"
	. "github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// ScheduleActor applies profiles on cron schedules from the settings
// document. Each schedule entry becomes a quartz job that fires an apply
// request at the profile actor.
type ScheduleActor struct {
	behavior  actor.Behavior
	settings  domain.Settings
	scheduler quartz.Scheduler

	profileActor *actor.PID

	logger *zap.Logger
}

func NewScheduleActor(settings domain.Settings, profileActor *actor.PID, logger *zap.Logger) *ScheduleActor {
	act := &ScheduleActor{
		settings:     settings,
		profileActor: profileActor,
		behavior:     actor.NewBehavior(),
		logger:       ActorLogger(domain.ACTOR_ID_SCHEDULE, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *ScheduleActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ScheduleActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("schedule@default started")
		state.scheduler = quartz.NewStdScheduler()
		state.scheduler.Start(context.Background())
		state.scheduleJobs(ctx, state.settings)
	case *actor.Restarting:
		state.stopScheduler()
	case *actor.Stopping:
		state.stopScheduler()
	case domain.ActorHealthRequest:
		state.logger.Debug("schedule@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_SCHEDULE,
			Healthy: true,
			State:   "idle",
		})
	case domain.ReloadBindingsRequest:
		state.logger.Debug("schedule@default ReloadBindingsRequest")
		state.settings = msg.Settings
		if err := state.scheduler.Clear(); err != nil {
			state.logger.Warn("schedule clear failed", zap.Error(err))
		}
		state.scheduleJobs(ctx, msg.Settings)
	default:
		state.logger.Debug("schedule@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// scheduleJobs registers one cron job per schedules entry. Bad expressions
// are logged and skipped so one typo does not take down every schedule.
func (state *ScheduleActor) scheduleJobs(ctx actor.Context, settings domain.Settings) {
	root := ctx.ActorSystem().Root
	profilePID := state.profileActor
	for profile, expression := range settings.Schedules {
		trigger, err := quartz.NewCronTrigger(expression)
		if err != nil {
			state.logger.Warn("invalid cron expression",
				zap.String("profile", profile), zap.String("expression", expression), zap.Error(err))
			continue
		}
		name := profile
		applyJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
			root.Send(profilePID, domain.ApplyProfileRequest{Name: name})
			return true, nil
		})
		detail := quartz.NewJobDetail(applyJob, quartz.NewJobKey(fmt.Sprintf("apply_%s", name)))
		if err := state.scheduler.ScheduleJob(detail, trigger); err != nil {
			state.logger.Warn("schedule job failed", zap.String("profile", name), zap.Error(err))
			continue
		}
		state.logger.Info("profile schedule registered",
			zap.String("profile", name), zap.String("expression", expression))
	}
}

func (state *ScheduleActor) stopScheduler() {
	if state.scheduler != nil {
		state.scheduler.Stop()
	}
}
