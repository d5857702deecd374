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

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/H0308/simple-chat-room-udp/internal/netutil"
	"github.com/H0308/simple-chat-room-udp/metrics"
)

// Translator maps one request to its reply.
type Translator func(word string) string

// TranslateService answers each datagram with translate(payload), sent back
// to the sender only. It has no registry and no worker pool.
type TranslateService struct {
	conn      net.PacketConn
	translate Translator
	opts      options
	closed    atomic.Bool
}

var _ Service = (*TranslateService)(nil)

// NewTranslateService creates a translate loop serving on conn.
func NewTranslateService(conn net.PacketConn, translate Translator, opt ...Option) (*TranslateService, error) {
	if conn == nil {
		return nil, errors.New("chatroom: nil packet conn")
	}
	if translate == nil {
		return nil, errors.New("chatroom: nil translator")
	}
	if err := netutil.ValidateUDP(conn); err != nil {
		return nil, errors.Wrap(err, "chatroom: validate packet conn")
	}
	return &TranslateService{conn: conn, translate: translate, opts: newOptions(opt...)}, nil
}

// Serve runs the request/response loop until ctx is done or Close is called.
func (s *TranslateService) Serve(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	s.opts.logger.Infof("translate service serving on %s", s.conn.LocalAddr())
	buf := make([]byte, s.opts.maxPacketSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		metrics.Add(metrics.UDPRecvCalls, 1)
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				break
			}
			metrics.Add(metrics.UDPRecvFails, 1)
			s.opts.logger.Warnf("translate service: read: %v", err)
			continue
		}
		word := string(buf[:n])
		reply := s.translate(word)
		metrics.Add(metrics.Translations, 1)

		metrics.Add(metrics.UDPSendCalls, 1)
		if _, err := s.conn.WriteTo([]byte(reply), addr); err != nil {
			metrics.Add(metrics.UDPSendFails, 1)
			s.opts.logger.Warnf("translate service: reply to %s: %v", addr, err)
			continue
		}
		s.opts.logger.Infof("translate service: received %q, sent %q to %s", word, reply, addr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrServerClosed
}

// Close closes the socket, which ends the loop.
func (s *TranslateService) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

// LocalAddr returns the address the service reads from.
func (s *TranslateService) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}
