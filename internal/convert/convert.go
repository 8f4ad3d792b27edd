// Package convert drives the external UAssetGUI converter that turns the
// game's native table assets into JSON and back.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// Converter verbs.
const (
	OpToJSON   = "tojson"
	OpFromJSON = "fromjson"
)

// Options are the per-call inputs that do not change during a run.
type Options struct {
	FormatVersion   string
	KeyHex          string
	MappingName     string
	ToJSONTimeout   time.Duration
	ToNativeTimeout time.Duration
}

// Bridge runs converter calls. Each call is synchronous and bounded by its
// timeout.
type Bridge struct {
	command []string
	opts    Options
	logger  *zap.Logger
}

var errNoOutput = errors.New("converter exited cleanly but wrote no output")

// New returns a bridge for an already located command line. The first
// element is the executable; the rest are leading arguments such as the
// program a launcher like wine should run.
func New(command []string, opts Options, logger *zap.Logger) (*Bridge, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, types.ErrConverterNotFound
	}
	if opts.FormatVersion == "" {
		opts.FormatVersion = types.DefaultFormatVersion
	}
	if opts.ToJSONTimeout <= 0 {
		opts.ToJSONTimeout = types.DefaultToJSONTimeout
	}
	if opts.ToNativeTimeout <= 0 {
		opts.ToNativeTimeout = types.DefaultToNativeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		command: append([]string(nil), command...),
		opts:    opts,
		logger:  logger.Named("convert"),
	}, nil
}

// Command returns the resolved command line.
func (b *Bridge) Command() []string {
	return append([]string(nil), b.command...)
}

// ToJSON converts a native asset to JSON.
func (b *Bridge) ToJSON(ctx context.Context, nativePath, jsonPath string) error {
	args := []string{OpToJSON, nativePath, jsonPath, b.opts.FormatVersion}
	if b.opts.KeyHex != "" {
		args = append(args, b.opts.KeyHex)
	}
	return b.run(ctx, OpToJSON, nativePath, jsonPath, b.opts.ToJSONTimeout, args)
}

// ToNative converts a JSON table back to a native asset.
func (b *Bridge) ToNative(ctx context.Context, jsonPath, nativePath string) error {
	args := []string{OpFromJSON, jsonPath, nativePath, b.opts.FormatVersion}
	if b.opts.KeyHex != "" {
		args = append(args, b.opts.KeyHex)
	}
	if b.opts.MappingName != "" {
		args = append(args, b.opts.MappingName)
	}
	return b.run(ctx, OpFromJSON, jsonPath, nativePath, b.opts.ToNativeTimeout, args)
}

func (b *Bridge) run(ctx context.Context, op, in, out string, timeout time.Duration, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := append(append([]string(nil), b.command[1:]...), args...)
	b.logger.Debug("running converter",
		zap.String("op", op),
		zap.String("command", b.command[0]+" "+strings.Join(argv, " ")),
		zap.Duration("timeout", timeout),
	)

	var stdout, stderr bytes.Buffer
	debug := &zapio.Writer{Log: b.logger, Level: zapcore.DebugLevel}
	defer debug.Close()

	cmd := exec.CommandContext(ctx, b.command[0], argv...)
	cmd.Stdout = io.MultiWriter(debug, &stdout)
	cmd.Stderr = io.MultiWriter(debug, &stderr)
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", timeout, context.DeadlineExceeded)
		} else {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				err = fmt.Errorf("exit status %d", exitErr.ExitCode())
			}
		}
		return &types.ConversionError{Op: op, Path: in, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
	}
	if _, err := os.Stat(out); err != nil {
		return &types.ConversionError{Op: op, Path: in, Stdout: stdout.String(), Stderr: stderr.String(), Err: errNoOutput}
	}

	b.logger.Info("converted",
		zap.String("op", op),
		zap.String("from", in),
		zap.String("to", out),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
