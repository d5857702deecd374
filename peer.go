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
	"net"

	"github.com/pkg/errors"

	"github.com/H0308/simple-chat-room-udp/metrics"
)

// Sender writes a datagram to an address. net.PacketConn satisfies it.
type Sender interface {
	WriteTo(p []byte, addr net.Addr) (n int, err error)
}

// Peer is a chat participant. Two peers are equal iff both name and endpoint match.
type Peer struct {
	Name     string
	Endpoint Endpoint
}

// Send writes message to the peer's endpoint over conn.
func (p Peer) Send(conn Sender, message string) error {
	metrics.Add(metrics.UDPSendCalls, 1)
	if _, err := conn.WriteTo([]byte(message), p.Endpoint.UDPAddr()); err != nil {
		metrics.Add(metrics.UDPSendFails, 1)
		return errors.Wrapf(err, "send to %s", p)
	}
	return nil
}

// String returns "name(ip:port)".
func (p Peer) String() string {
	return p.Name + "(" + p.Endpoint.String() + ")"
}
