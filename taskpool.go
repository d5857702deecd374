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
	"github.com/H0308/simple-chat-room-udp/workerpool"
)

// Broadcast is the task the receive loop hands to the worker pool:
// send Message to everyone in the room.
type Broadcast struct {
	Message string

	room *Registry
	conn Sender
}

// Run implements workerpool.Task.
func (b Broadcast) Run() {
	if b.room == nil || b.conn == nil {
		return
	}
	b.room.Broadcast(b.conn, b.Message)
}

// BroadcastPool is a worker pool running Broadcast tasks.
type BroadcastPool = workerpool.Pool[Broadcast]

// NewBroadcastPool creates an idle pool with the given number of workers.
func NewBroadcastPool(workers int, opt ...workerpool.Option) *BroadcastPool {
	return workerpool.New[Broadcast](workers, opt...)
}

// SharedBroadcastPool returns the process wide Broadcast pool.
// The first caller's worker count wins.
func SharedBroadcastPool(workers int, opt ...workerpool.Option) *BroadcastPool {
	return workerpool.Shared[Broadcast](workers, opt...)
}

// taskQueue is the part of the pool the receive loop needs.
type taskQueue interface {
	Push(task Broadcast) bool
}
