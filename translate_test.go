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

package chatroom_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatroom "github.com/H0308/simple-chat-room-udp"
	"github.com/H0308/simple-chat-room-udp/internal/dict"
)

func TestTranslateService(t *testing.T) {
	conn, err := net.ListenPacket("udp4", getTestAddr())
	require.Nil(t, err)
	d := dict.New(map[string]string{"apple": "苹果"})
	s, err := chatroom.NewTranslateService(conn, d.Translate, chatroom.WithLogger(nopLogger{}))
	require.Nil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()

	c, err := net.Dial("udp4", s.LocalAddr().String())
	require.Nil(t, err)
	defer c.Close()

	ask := func(word string) string {
		_, err := c.Write([]byte(word))
		require.Nil(t, err)
		require.Nil(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		b := make([]byte, 1024)
		n, err := c.Read(b)
		require.Nil(t, err)
		return string(b[:n])
	}
	assert.Equal(t, "苹果", ask("apple"))
	assert.Equal(t, dict.Unknown, ask("pear"))

	cancel()
	select {
	case err := <-errc:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTranslateServiceErrors(t *testing.T) {
	_, err := chatroom.NewTranslateService(nil, func(s string) string { return s })
	assert.NotNil(t, err)

	conn, err := net.ListenPacket("udp4", getTestAddr())
	require.Nil(t, err)
	defer conn.Close()
	_, err = chatroom.NewTranslateService(conn, nil)
	assert.NotNil(t, err)

	s, err := chatroom.NewTranslateService(conn, func(s string) string { return s })
	require.Nil(t, err)
	require.Nil(t, s.Close())
	assert.Equal(t, chatroom.ErrServerClosed, s.Serve(context.Background()))
}
