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

package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatroom "github.com/H0308/simple-chat-room-udp"
	"github.com/H0308/simple-chat-room-udp/internal/cli"
	"github.com/H0308/simple-chat-room-udp/log"
)

func TestParseArgs(t *testing.T) {
	var out bytes.Buffer
	c, err := parseArgs([]string{"127.0.0.1", "8080", "alice"}, &out)
	require.Nil(t, err)
	assert.Equal(t, "127.0.0.1:8080", c.address)
	assert.Equal(t, "alice", c.name)
	assert.Equal(t, "warn", c.log.Level)

	for _, args := range [][]string{
		nil,
		{"127.0.0.1", "8080"},
		{"localhost", "8080", "alice"},
		{"::1", "8080", "alice"},
		{"127.0.0.1", "http", "alice"},
		{"127.0.0.1", "8080", "alice", "extra"},
	} {
		_, err := parseArgs(args, &out)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err), "%v", args)
	}
}

func TestRunInvalidName(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"127.0.0.1", "8080", "a:b"}, strings.NewReader(""), &out, &errOut)
	assert.Equal(t, cli.ExitUsage, code)
}

// lockedBuffer is written by the receive goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunChatsUntilEndOfInput(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.Nil(t, err)
	s, err := chatroom.NewServer(conn, chatroom.WithLogger(quietLogger(t)))
	require.Nil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx)

	port := conn.LocalAddr().(*net.UDPAddr).Port
	in, stdin := io.Pipe()
	var out, errOut lockedBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(context.Background(), []string{"--log-level", "error", "127.0.0.1", strconv.Itoa(port), "alice"}, in, &out, &errOut)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "alice:(127.0.0.1:")
	}, 2*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(stdin, "\nhello\n")
	require.Nil(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "alice: hello")
	}, 2*time.Second, 10*time.Millisecond)

	stdin.Close()
	select {
	case code := <-done:
		assert.Equal(t, cli.ExitOK, code)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not exit at end of input")
	}
	require.Eventually(t, func() bool {
		return s.Registry().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunQuitsOnCancel(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.Nil(t, err)
	s, err := chatroom.NewServer(conn, chatroom.WithLogger(quietLogger(t)))
	require.Nil(t, err)
	serveCtx, stopServe := context.WithCancel(context.Background())
	defer stopServe()
	go s.Serve(serveCtx)

	port := conn.LocalAddr().(*net.UDPAddr).Port
	in, stdin := io.Pipe()
	defer stdin.Close()
	ctx, cancel := context.WithCancel(context.Background())
	var out, errOut lockedBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"--log-level", "error", "127.0.0.1", strconv.Itoa(port), "bob"}, in, &out, &errOut)
	}()

	require.Eventually(t, func() bool {
		return s.Registry().Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case code := <-done:
		assert.Equal(t, cli.ExitOK, code)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not exit on cancel")
	}
	require.Eventually(t, func() bool {
		return s.Registry().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func quietLogger(t *testing.T) log.Logger {
	l, err := log.New(log.Config{Level: "fatal"})
	require.Nil(t, err)
	return l
}
