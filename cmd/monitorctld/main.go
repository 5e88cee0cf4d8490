package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/example/monitorctl/internal/adapter/actor"
	"github.com/example/monitorctl/internal/adapter/keyboard"
	"github.com/example/monitorctl/internal/config"
	"github.com/example/monitorctl/internal/core/actor"
	"github.com/example/monitorctl/internal/core/port"
	"github.com/example/monitorctl/internal/core/service"
	"github.com/example/monitorctl/internal/server"
	"github.com/example/monitorctl/internal/util/actorutil"
	"github.com/example/monitorctl/pkg/ddc"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	// init DDC controller shared by the DDC actor and the profile store
	controller, err := ddcController(cfg, logger)
	if err != nil {
		panic(err)
	}

	settings := service.NewSettingsStore(cfg.ConfigDir, logger)
	profiles := service.NewProfileManager(cfg.ConfigDir, controller, logger)

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterActor(*cfg, settings, profiles, keySource(cfg, logger),
			ddcActorProvider(cfg, controller, logger), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => MONITORCTL_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("MONITORCTL_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("monitorctl")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.DDC.RequestTimeoutMillis < 1000 {
		return nil, errors.New("config param ddc.request_timeout_millis should be >= 1000")
	}
	if cfg.Monitor.PollIntervalMillis != 0 && cfg.Monitor.PollIntervalMillis < 1000 {
		return nil, errors.New("config param monitor.poll_interval_millis should be 0 or >= 1000")
	}

	return &cfg, nil
}

func ddcController(cfg *config.Config, logger *zap.Logger) (*ddc.Controller, error) {
	transport := ddc.NewExecTransport(cfg.DDC.Command,
		time.Duration(cfg.DDC.RequestTimeoutMillis)*time.Millisecond, logger)
	return ddc.NewController(transport, logger)
}

func ddcActorProvider(cfg *config.Config, controller *ddc.Controller, logger *zap.Logger) actor.DDCActorProvider {
	timeout := time.Duration(cfg.DDC.RequestTimeoutMillis) * time.Millisecond
	return func() *adactor.DDCActor {
		return adactor.NewDDCActor(controller, timeout, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func() *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, logger)
	}
}

func keySource(cfg *config.Config, logger *zap.Logger) port.KeySource {
	if cfg.Hotkeys.InputDevice == "" {
		return nil
	}
	return keyboard.NewDevInputSource(cfg.Hotkeys.InputDevice, logger)
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("config_dir", config.DefaultConfigDir())
	viper.SetDefault("ddc.command", "ddcutil")
	viper.SetDefault("ddc.request_timeout_millis", 10000)
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "monitorctl")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("monitor.poll_interval_millis", 30000)
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
