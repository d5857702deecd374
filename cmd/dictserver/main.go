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

// Command dictserver answers each UDP datagram holding an English word with
// its translation, or "None" when the word is unknown.
//
//	dictserver [flags] [port]
//
// The dictionary is a YAML mapping of word to translation:
//
//	apple: 苹果
//	banana: 香蕉
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
	"github.com/H0308/simple-chat-room-udp/internal/dict"
)

type config struct {
	cli.ServerFlags
	dict string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	cancel()
	os.Exit(code)
}

func parseArgs(args []string, out io.Writer) (config, error) {
	var c config
	fs := cli.NewFlagSet("dictserver", "[flags] [port]", out)
	c.Register(fs)
	fs.StringVarP(&c.dict, "dict", "d", "dict.yaml", "dictionary file")
	return c, c.Parse(fs, args)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	c, err := parseArgs(args, out)
	if err != nil {
		if code := cli.ExitCode(err); code != cli.ExitOK {
			fmt.Fprintln(out, err)
			return code
		}
		return cli.ExitOK
	}
	logger, err := c.Logger()
	if err != nil {
		fmt.Fprintln(out, err)
		return cli.ExitConfig
	}
	d, err := dict.Load(c.dict)
	if err != nil {
		logger.Errorf("dictserver: %v", err)
		return cli.ExitConfig
	}
	logger.Infof("dictserver: loaded %d words from %s", d.Len(), c.dict)
	for _, w := range d.Words() {
		logger.Debug(w)
	}

	conn, err := chatroom.ListenUDP(c.Port, c.ListenOptions(logger)...)
	if err != nil {
		logger.Errorf("dictserver: %v", err)
		return cli.ExitCode(err)
	}
	s, err := chatroom.NewTranslateService(conn, d.Translate, chatroom.WithLogger(logger))
	if err != nil {
		conn.Close()
		logger.Errorf("dictserver: %v", err)
		return cli.ExitSocket
	}

	go cli.ReportMetrics(ctx, c.MetricsInterval)
	if err := s.Serve(ctx); err != nil && err != context.Canceled && err != chatroom.ErrServerClosed {
		logger.Errorf("dictserver: %v", err)
		return cli.ExitSocket
	}
	return cli.ExitOK
}
