//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 THL A29 Limited, a Tencent company.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

// Package cli holds the flag handling and exit codes shared by the binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	chatroom "github.com/H0308/simple-chat-room-udp"
	"github.com/H0308/simple-chat-room-udp/log"
	"github.com/H0308/simple-chat-room-udp/metrics"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitSocket = 1
	ExitBind   = 2
	ExitConfig = 3
	ExitUsage  = 4
)

// ErrUsage marks a command line that cannot be run.
var ErrUsage = errors.New("usage error")

// ServerFlags are the flags common to the datagram servers.
type ServerFlags struct {
	Port            uint16
	Workers         int
	Log             log.Config
	ReusePort       bool
	RecvBuffer      int
	MetricsInterval time.Duration
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func NewFlagSet(name, usage string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// Register adds the server flags to fs.
func (f *ServerFlags) Register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.Workers, "workers", "w", 5, "number of broadcast workers")
	fs.StringVarP(&f.Log.Level, "log-level", "l", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.Log.File, "log-file", "", "write logs to this file instead of stdout")
	fs.BoolVar(&f.ReusePort, "reuseport", false, "bind with SO_REUSEPORT")
	fs.IntVar(&f.RecvBuffer, "recv-buffer", 0, "SO_RCVBUF size in bytes, 0 keeps the system default")
	fs.DurationVar(&f.MetricsInterval, "metrics-interval", 0, "log a metrics snapshot at this interval (debug level), 0 disables")
}

// Parse parses args into f. At most one positional argument, the port, is
// accepted; without it the port is chatroom.DefaultPort.
func (f *ServerFlags) Parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return errors.Wrap(ErrUsage, err.Error())
	}
	port, err := ParsePort(fs.Args(), chatroom.DefaultPort)
	if err != nil {
		fs.Usage()
		return err
	}
	f.Port = port
	return nil
}

// ParsePort reads the optional single port argument.
func ParsePort(args []string, def uint16) (uint16, error) {
	switch len(args) {
	case 0:
		return def, nil
	case 1:
		return PortArg(args[0])
	default:
		return 0, errors.Wrapf(ErrUsage, "expected at most one argument, got %d", len(args))
	}
}

// PortArg parses a decimal port number.
func PortArg(s string) (uint16, error) {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(ErrUsage, "invalid port %q", s)
	}
	return uint16(p), nil
}

// Logger builds the logger described by f and makes it the process default.
func (f *ServerFlags) Logger() (log.Logger, error) {
	logger, err := log.New(f.Log)
	if err != nil {
		return nil, err
	}
	log.Default = logger
	return logger, nil
}

// ListenOptions maps the socket related flags onto listen options.
func (f *ServerFlags) ListenOptions(logger log.Logger) []chatroom.Option {
	return []chatroom.Option{
		chatroom.WithLogger(logger),
		chatroom.WithReusePort(f.ReusePort),
		chatroom.WithRecvBufferSize(f.RecvBuffer),
	}
}

// ExitCode maps a startup error onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return ExitOK
	}
	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}
	var le *chatroom.ListenError
	if errors.As(err, &le) {
		if le.Op == chatroom.OpBind {
			return ExitBind
		}
		return ExitSocket
	}
	return ExitConfig
}

// ReportMetrics logs a metrics snapshot every d until ctx is done.
// A non-positive d disables reporting.
func ReportMetrics(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			metrics.ShowMetrics()
		}
	}
}
