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

package chatroom

import (
	"context"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/H0308/simple-chat-room-udp/metrics"
)

// ErrEmptyMessage is returned by Client.Send for an empty text; the server
// would drop it anyway.
var ErrEmptyMessage = errors.New("chatroom: empty message")

// ErrInvalidName is returned by Dial for an empty name or one holding the
// separator.
var ErrInvalidName = errors.New("chatroom: invalid name")

// Client is one participant talking to a chat room server.
type Client struct {
	conn   net.Conn
	name   string
	opts   options
	closed atomic.Bool
}

// Dial connects to the server at address as name.
// The name must be non-empty and must not contain a colon.
func Dial(address, name string, opt ...Option) (*Client, error) {
	if name == "" || strings.Contains(name, separator) {
		return nil, errors.Wrapf(ErrInvalidName, "%q", name)
	}
	conn, err := net.Dial("udp4", address)
	if err != nil {
		return nil, errors.Wrapf(err, "chatroom: dial %s", address)
	}
	opts := newOptions(opt...)
	opts.logger.Infof("client %s initiated: %s -> %s", name, conn.LocalAddr(), conn.RemoteAddr())
	return &Client{conn: conn, name: name, opts: opts}, nil
}

// Name returns the identity the client sends with.
func (c *Client) Name() string {
	return c.name
}

// LocalAddr returns the client's address as the server sees it on loopback.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Join announces the client to the room.
func (c *Client) Join() error {
	return c.write(BodyOnline)
}

// Quit tells the room the client is leaving.
func (c *Client) Quit() error {
	return c.write(BodyQuit)
}

// Send posts text to the room.
func (c *Client) Send(text string) error {
	if text == "" {
		return ErrEmptyMessage
	}
	return c.write(text)
}

func (c *Client) write(body string) error {
	metrics.Add(metrics.UDPSendCalls, 1)
	if _, err := c.conn.Write([]byte(FormatRequest(c.name, body))); err != nil {
		metrics.Add(metrics.UDPSendFails, 1)
		return errors.Wrap(err, "chatroom: client send")
	}
	return nil
}

// Receive calls handle for every datagram from the server until ctx is done,
// the client is closed, or a read fails. It returns nil once closed.
// Receive may be called again after it returns.
func (c *Client) Receive(ctx context.Context, handle func(message string)) error {
	done := make(chan struct{})
	woken := make(chan struct{})
	go func() {
		defer close(woken)
		select {
		case <-ctx.Done():
			// Wake the blocked read.
			c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-woken
		c.conn.SetReadDeadline(time.Time{})
	}()

	buf := make([]byte, c.opts.maxPacketSize)
	for {
		n, err := c.conn.Read(buf)
		metrics.Add(metrics.UDPRecvCalls, 1)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			metrics.Add(metrics.UDPRecvFails, 1)
			if errors.Is(err, syscall.ECONNREFUSED) {
				// An earlier send hit a closed port; keep listening.
				c.opts.logger.Warnf("client %s: %v", c.name, err)
				continue
			}
			return errors.Wrap(err, "chatroom: client receive")
		}
		handle(string(buf[:n]))
	}
}

// Close closes the socket. It does not send quit.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
