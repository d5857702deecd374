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

// Package chatroom provides a UDP chat room: a receive loop tracks the peers
// that announce themselves and hands every message to a fixed pool of workers
// that fan it out to all of them.
//
// A datagram carries "<identity>:<body>". The bodies "online" and "quit"
// join and leave the room, anything else is chat. Delivery is best effort,
// lost datagrams are never retried.
package chatroom

import (
	"context"

	"github.com/pkg/errors"
)

// DefaultPort is the UDP port a server binds when none is given.
const DefaultPort uint16 = 8080

// ErrServerClosed is returned by Serve after Close has been called.
var ErrServerClosed = errors.New("chatroom: server closed")

// Service provides startup method to udp servers.
type Service interface {
	// Serve runs the receive loop until ctx is done or Close is called.
	Serve(ctx context.Context) error
	// Close closes the underlying socket. It is safe to call more than once.
	Close() error
}
