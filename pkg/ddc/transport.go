package ddc

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Transport executes raw DDC/CI requests against the hardware. Implementations
// return the adapter's raw text output; parsing is the codec's job.
type Transport interface {
	// Probe checks that the adapter is usable at all. Called once at
	// controller construction.
	Probe() error
	Detect() (string, error)
	GetVCP(bus int, feature Feature) (string, error)
	SetVCP(bus int, feature Feature, value int) error
	Capabilities(bus int) (string, error)
}

// ExecTransport runs the ddcutil binary for every request. Each invocation is
// bounded by a deadline so a hung adapter cannot hang the caller.
type ExecTransport struct {
	command string
	timeout time.Duration
	logger  *zap.Logger
}

func NewExecTransport(command string, timeout time.Duration, logger *zap.Logger) *ExecTransport {
	if command == "" {
		command = "ddcutil"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExecTransport{
		command: command,
		timeout: timeout,
		logger:  logger.With(zap.String("transport", "exec")),
	}
}

func (t *ExecTransport) Probe() error {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := exec.CommandContext(ctx, t.command, "--version").Run(); err != nil {
		return fmt.Errorf("%w: %s not runnable: %v", ErrTransportUnavailable, t.command, err)
	}
	return nil
}

func (t *ExecTransport) Detect() (string, error) {
	out, err := t.run("detect")
	if err != nil {
		return "", &TransportError{Op: "detect", Bus: -1, Err: err}
	}
	return out, nil
}

func (t *ExecTransport) GetVCP(bus int, feature Feature) (string, error) {
	out, err := t.run(busArg(bus), "getvcp", feature.Hex())
	if err != nil {
		return "", &TransportError{Op: "getvcp " + feature.String(), Bus: bus, Err: err}
	}
	return out, nil
}

func (t *ExecTransport) SetVCP(bus int, feature Feature, value int) error {
	_, err := t.run(busArg(bus), "setvcp", feature.Hex(), strconv.Itoa(value))
	if err != nil {
		return &TransportError{Op: "setvcp " + feature.String(), Bus: bus, Err: err}
	}
	return nil
}

func (t *ExecTransport) Capabilities(bus int) (string, error) {
	out, err := t.run(busArg(bus), "capabilities")
	if err != nil {
		return "", &TransportError{Op: "capabilities", Bus: bus, Err: err}
	}
	return out, nil
}

func (t *ExecTransport) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	t.logger.Debug("exec", zap.Strings("args", args))
	out, err := exec.CommandContext(ctx, t.command, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func busArg(bus int) string {
	return fmt.Sprintf("--bus=%d", bus)
}

// ensure interface compliance
var _ Transport = (*ExecTransport)(nil)
