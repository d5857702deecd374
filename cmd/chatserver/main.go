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

// Command chatserver runs a UDP chat room.
//
//	chatserver [flags] [port]
//
// Clients send "name:online" to join, "name:quit" to leave and "name:text"
// to talk. Every accepted datagram is broadcast to all joined peers.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	chatroom "github.com/H0308/simple-chat-room-udp"
	"github.com/H0308/simple-chat-room-udp/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	cancel()
	os.Exit(code)
}

func parseArgs(args []string, out io.Writer) (cli.ServerFlags, error) {
	var f cli.ServerFlags
	fs := cli.NewFlagSet("chatserver", "[flags] [port]", out)
	f.Register(fs)
	return f, f.Parse(fs, args)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	f, err := parseArgs(args, out)
	if err != nil {
		if code := cli.ExitCode(err); code != cli.ExitOK {
			fmt.Fprintln(out, err)
			return code
		}
		return cli.ExitOK
	}
	logger, err := f.Logger()
	if err != nil {
		fmt.Fprintln(out, err)
		return cli.ExitConfig
	}

	conn, err := chatroom.ListenUDP(f.Port, f.ListenOptions(logger)...)
	if err != nil {
		logger.Errorf("chatserver: %v", err)
		return cli.ExitCode(err)
	}
	s, err := chatroom.NewServer(conn, chatroom.WithWorkers(f.Workers), chatroom.WithLogger(logger))
	if err != nil {
		conn.Close()
		logger.Errorf("chatserver: %v", err)
		return cli.ExitSocket
	}

	go cli.ReportMetrics(ctx, f.MetricsInterval)
	if err := s.Serve(ctx); err != nil && err != context.Canceled && err != chatroom.ErrServerClosed {
		logger.Errorf("chatserver: %v", err)
		return cli.ExitSocket
	}
	return cli.ExitOK
}
