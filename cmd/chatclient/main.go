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

// Command chatclient joins a chat room, sends every line read from standard
// input and prints what the room broadcasts.
//
//	chatclient [flags] <ip> <port> <name>
//
// On SIGINT, SIGTERM or end of input it sends "name:quit" and exits 0.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	chatroom "github.com/H0308/simple-chat-room-udp"
	"github.com/H0308/simple-chat-room-udp/internal/cli"
	"github.com/H0308/simple-chat-room-udp/log"
)

type config struct {
	address string
	name    string
	log     log.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func parseArgs(args []string, out io.Writer) (config, error) {
	var c config
	fs := cli.NewFlagSet("chatclient", "[flags] <ip> <port> <name>", out)
	fs.StringVarP(&c.log.Level, "log-level", "l", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&c.log.File, "log-file", "", "write logs to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return c, err
		}
		return c, errors.Wrap(cli.ErrUsage, err.Error())
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return c, errors.Wrapf(cli.ErrUsage, "expected 3 arguments, got %d", fs.NArg())
	}
	ip := net.ParseIP(fs.Arg(0))
	if ip == nil || ip.To4() == nil {
		return c, errors.Wrapf(cli.ErrUsage, "invalid IPv4 address %q", fs.Arg(0))
	}
	port, err := cli.PortArg(fs.Arg(1))
	if err != nil {
		return c, err
	}
	c.address = net.JoinHostPort(ip.String(), fmt.Sprint(port))
	c.name = fs.Arg(2)
	return c, nil
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c, err := parseArgs(args, errOut)
	if err != nil {
		if code := cli.ExitCode(err); code != cli.ExitOK {
			fmt.Fprintln(errOut, err)
			return code
		}
		return cli.ExitOK
	}
	logger, err := log.New(c.log)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return cli.ExitConfig
	}
	client, err := chatroom.Dial(c.address, c.name, chatroom.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(errOut, err)
		if errors.Is(err, chatroom.ErrInvalidName) {
			return cli.ExitUsage
		}
		return cli.ExitSocket
	}
	defer client.Close()

	if err := client.Join(); err != nil {
		logger.Warnf("chatclient: %v", err)
	}

	recvCtx, stopRecv := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := client.Receive(recvCtx, func(m string) { fmt.Fprintln(out, m) }); err != nil && recvCtx.Err() == nil {
			logger.Errorf("chatclient: %v", err)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if line == "" {
				continue
			}
			if err := client.Send(line); err != nil {
				logger.Warnf("chatclient: %v", err)
			}
		}
	}

	if err := client.Quit(); err != nil {
		logger.Warnf("chatclient: %v", err)
	}
	stopRecv()
	wg.Wait()
	return cli.ExitOK
}
