package actorutil

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/example/monitorctl/internal/core/domain"
	"github.com/example/monitorctl/internal/mqtt"
	"github.com/example/monitorctl/pkg/ddc"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

var monitorNumberIdRegexp = regexp.MustCompile(`^monitor_(\d+)_(brightness|contrast)$`)
var profileButtonIdRegexp = regexp.MustCompile(`^profile_([a-zA-Z0-9_-]+)$`)

// ParsedMQTTCommandToCommand maps an incoming MQTT entity command to the
// actor request that serves it. A nil request with nil error means the
// command addresses no known entity.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	switch cmd.Command {
	case "number":
		matches := monitorNumberIdRegexp.FindStringSubmatch(cmd.DeviceId)
		if matches == nil {
			return nil, nil
		}
		bus, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(cmd.Payload, 64)
		if err != nil {
			return nil, err
		}
		feature := ddc.FeatureBrightness
		if matches[2] == "contrast" {
			feature = ddc.FeatureContrast
		}
		return domain.SetFeatureRequest{
			Bus:     bus,
			Feature: feature,
			Value:   clampPercent(int(value)),
		}, nil
	case "button":
		matches := profileButtonIdRegexp.FindStringSubmatch(cmd.DeviceId)
		if matches == nil {
			return nil, nil
		}
		return domain.ApplyProfileRequest{
			Name: matches[1],
		}, nil
	}
	return nil, nil
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
