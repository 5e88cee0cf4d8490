package actor

import (
	"fmt"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/core/events"
	"github.com/example/monitorctl/internal/core/service"
	. "github.com/example/monitorctl/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// ProfileActor owns the profile store. Apply and snapshot touch monitor
// hardware and run as background tasks; requests arriving meanwhile are
// stashed so store mutations stay ordered.
type ProfileActor struct {
	behavior    actor.Behavior
	stash       *Stash
	profiles    *service.ProfileManager
	eventStream *eventstream.EventStream
	logger      *zap.Logger
}

type profileTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewProfileActor(profiles *service.ProfileManager, eventStream *eventstream.EventStream, logger *zap.Logger) *ProfileActor {
	act := &ProfileActor{
		profiles:    profiles,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_PROFILE, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ProfileActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ProfileActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("profile@starting started")
		if err := state.profiles.Load(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("profile@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ProfileActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("profile@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_PROFILE,
			Healthy: true,
			State:   "idle",
		})
	case domain.ListProfilesRequest:
		state.logger.Debug("profile@default ListProfilesRequest")
		ForRequest(msg).Respond(ctx, domain.ListProfilesResponse{
			Profiles: state.profiles.List(),
		})
	case domain.DeleteProfileRequest:
		state.logger.Debug("profile@default DeleteProfileRequest", zap.String("name", msg.Name))
		ForRequest(msg).Respond(ctx, domain.DeleteProfileResponse{
			Name:    msg.Name,
			Deleted: state.profiles.Delete(msg.Name),
		})
	case domain.ApplyProfileRequest:
		state.logger.Info("profile@default ApplyProfileRequest", zap.String("name", msg.Name))
		sender := ForRequest(msg).ReplyTo(ctx)
		name := msg.Name
		NewBackgroundTaskNoError(ctx, func() *profileTaskResult {
			return &profileTaskResult{
				message: domain.ApplyProfileResponse{
					Name:    name,
					Applied: state.profiles.Apply(name),
				},
				replyTo: sender,
			}
		}).Recover(func(err error) profileTaskResult {
			return profileTaskResult{
				message: domain.ApplyProfileResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Name: name,
				},
				replyTo: sender,
			}
		}).WithTimeout(30 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingStoreReceive)
	case domain.SnapshotProfileRequest:
		state.logger.Info("profile@default SnapshotProfileRequest", zap.String("name", msg.Name))
		sender := ForRequest(msg).ReplyTo(ctx)
		name := msg.Name
		description := msg.Description
		NewBackgroundTaskNoError(ctx, func() *profileTaskResult {
			return &profileTaskResult{
				message: domain.SnapshotProfileResponse{
					Name:    name,
					Created: state.profiles.Snapshot(name, description),
				},
				replyTo: sender,
			}
		}).Recover(func(err error) profileTaskResult {
			return profileTaskResult{
				message: domain.SnapshotProfileResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Name: name,
				},
				replyTo: sender,
			}
		}).WithTimeout(30 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingStoreReceive)
	default:
		state.logger.Debug("profile@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ProfileActor) WaitingStoreReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case profileTaskResult:
		state.logger.Debug("profile@waiting taskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		if resp, ok := msg.message.(domain.ApplyProfileResponse); ok && resp.Applied && state.eventStream != nil {
			state.eventStream.Publish(events.ActiveProfileToUpdateEvent(resp.Name))
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("profile@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}
