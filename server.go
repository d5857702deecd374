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
	"github.com/H0308/simple-chat-room-udp/workerpool"
)

// Server is the chat room. One goroutine reads datagrams and updates the
// registry, the worker pool does every send.
type Server struct {
	conn     net.PacketConn
	registry *Registry
	pool     *BroadcastPool
	queue    taskQueue
	opts     options
	closed   atomic.Bool
}

var _ Service = (*Server)(nil)

// NewServer creates a chat room serving on conn.
func NewServer(conn net.PacketConn, opt ...Option) (*Server, error) {
	if conn == nil {
		return nil, errors.New("chatroom: nil packet conn")
	}
	if err := netutil.ValidateUDP(conn); err != nil {
		return nil, errors.Wrap(err, "chatroom: validate packet conn")
	}
	opts := newOptions(opt...)
	pool := opts.pool
	if pool == nil {
		pool = NewBroadcastPool(opts.workers, workerpool.WithLogger(opts.logger))
	}
	return &Server{
		conn:     conn,
		registry: newRegistry(opts.logger),
		pool:     pool,
		queue:    pool,
		opts:     opts,
	}, nil
}

// Serve starts the worker pool and runs the receive loop until ctx is done
// or Close is called. Before returning it stops the pool and waits for
// the broadcasts already queued to be sent.
func (s *Server) Serve(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if err := s.pool.Start(); err != nil {
		return err
	}
	defer func() {
		s.pool.Stop()
		s.pool.Join()
		s.opts.logger.Info("chat room stopped")
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	s.opts.logger.Infof("chat room serving on %s with %d workers", s.conn.LocalAddr(), s.pool.Workers())
	buf := make([]byte, s.opts.maxPacketSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		metrics.Add(metrics.UDPRecvCalls, 1)
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				break
			}
			metrics.Add(metrics.UDPRecvFails, 1)
			s.opts.logger.Warnf("chat room: read: %v", err)
			continue
		}
		s.handlePacket(buf[:n], addr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrServerClosed
}

// handlePacket turns one datagram into a registry update and a broadcast.
func (s *Server) handlePacket(data []byte, addr net.Addr) {
	msg, ok := ParseMessage(data)
	if !ok {
		metrics.Add(metrics.PacketsMalformed, 1)
		return
	}
	ep, err := EndpointFromAddr(addr)
	if err != nil {
		s.opts.logger.Warnf("chat room: drop datagram: %v", err)
		return
	}
	s.opts.logger.Debugf("chat room: %s sent %q", ep, data)

	peer := Peer{Name: msg.Identity, Endpoint: ep}
	switch msg.Kind {
	case KindJoin:
		if s.registry.Add(peer) {
			metrics.Add(metrics.PeersJoined, 1)
			s.opts.logger.Infof("chat room: %s joined", peer)
		}
	case KindLeave:
		if s.registry.Remove(peer) {
			metrics.Add(metrics.PeersLeft, 1)
			s.opts.logger.Infof("chat room: %s left", peer)
		}
	}
	s.queue.Push(Broadcast{
		Message: msg.Announcement(ep),
		room:    s.registry,
		conn:    s.conn,
	})
}

// Close closes the socket, which ends the receive loop.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

// Registry returns the peers the server knows about.
func (s *Server) Registry() *Registry {
	return s.registry
}

// LocalAddr returns the address the server reads from.
func (s *Server) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}
