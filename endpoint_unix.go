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

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package chatroom

import (
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/H0308/simple-chat-room-udp/internal/netutil"
)

// EndpointFromSockaddr converts a kernel socket address.
func EndpointFromSockaddr(sa *unix.SockaddrInet4) (Endpoint, error) {
	return EndpointFromAddr(netutil.SockaddrInet4ToUDPAddr(sa))
}

// Sockaddr returns e as a kernel socket address.
// The zero Endpoint maps to the wildcard address.
func (e Endpoint) Sockaddr() (*unix.SockaddrInet4, error) {
	return netutil.UDPAddrToSockaddrInet4(e.UDPAddr())
}

// Wire returns the raw sockaddr_in bytes of e, port in network byte order.
func (e Endpoint) Wire() []byte {
	return netutil.SockaddrInet4ToSlice(e.IP.As4(), e.Port)
}

// EndpointFromWire parses raw sockaddr_in bytes produced by Wire.
func EndpointFromWire(b []byte) (Endpoint, error) {
	ip, port, err := netutil.SliceToSockaddrInet4(b)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{IP: netip.AddrFrom4(ip), Port: port}, nil
}
