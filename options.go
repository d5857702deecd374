//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 Tencent.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

package chatroom

import (
	"github.com/H0308/simple-chat-room-udp/log"
	"github.com/H0308/simple-chat-room-udp/workerpool"
)

// defaultMaxPacketSize matches the fixed receive buffer chat clients expect.
const defaultMaxPacketSize = 1024

// Option chat room option.
type Option struct {
	f func(*options)
}

type options struct {
	workers        int
	pool           *BroadcastPool
	logger         log.Logger
	maxPacketSize  int
	reusePort      bool
	recvBufferSize int
}

func (o *options) setDefault() {
	o.workers = workerpool.DefaultWorkers
	o.logger = log.Default
	o.maxPacketSize = defaultMaxPacketSize
}

func newOptions(opt ...Option) options {
	var opts options
	opts.setDefault()
	for _, o := range opt {
		o.f(&opts)
	}
	return opts
}

// WithWorkers sets the number of workers of the pool a server creates for itself.
// It has no effect together with WithWorkerPool.
func WithWorkers(n int) Option {
	return Option{func(op *options) {
		if n > 0 {
			op.workers = n
		}
	}}
}

// WithWorkerPool makes the server run broadcasts on p instead of creating its own pool.
// The server starts p when it begins serving and stops and joins it when it returns.
func WithWorkerPool(p *BroadcastPool) Option {
	return Option{func(op *options) {
		op.pool = p
	}}
}

// WithLogger sets the logger, log.Default by default.
func WithLogger(l log.Logger) Option {
	return Option{func(op *options) {
		if l != nil {
			op.logger = l
		}
	}}
}

// WithMaxPacketSize sets the receive buffer size. Longer datagrams are truncated.
func WithMaxPacketSize(size int) Option {
	return Option{func(op *options) {
		if size > 0 {
			op.maxPacketSize = size
		}
	}}
}

// WithReusePort makes ListenUDP set SO_REUSEPORT so several processes can share a port.
func WithReusePort(reuse bool) Option {
	return Option{func(op *options) {
		op.reusePort = reuse
	}}
}

// WithRecvBufferSize makes ListenUDP set SO_RCVBUF to size bytes.
func WithRecvBufferSize(size int) Option {
	return Option{func(op *options) {
		op.recvBufferSize = size
	}}
}
