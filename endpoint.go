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
	"net/netip"
	"strconv"

	"github.com/pkg/errors"
)

// Endpoint is an IPv4 address and UDP port in host byte order.
// Endpoints are values and compare with ==.
type Endpoint struct {
	IP   netip.Addr
	Port uint16
}

// NewEndpoint parses a dotted IPv4 address.
func NewEndpoint(ip string, port uint16) (Endpoint, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return Endpoint{}, errors.Wrapf(err, "parse endpoint ip %q", ip)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return Endpoint{}, errors.Errorf("endpoint ip %s is not IPv4", ip)
	}
	return Endpoint{IP: addr, Port: port}, nil
}

// EndpointFromAddr converts the address a datagram came from.
// IPv4-mapped IPv6 addresses are unmapped, other IPv6 addresses are rejected.
func EndpointFromAddr(addr net.Addr) (Endpoint, error) {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return Endpoint{}, errors.Errorf("address %v is %T, not *net.UDPAddr", addr, addr)
	}
	ap := udpAddr.AddrPort()
	ip := ap.Addr().Unmap()
	if !ip.Is4() {
		return Endpoint{}, errors.Errorf("address %s is not IPv4", udpAddr)
	}
	return Endpoint{IP: ip, Port: ap.Port()}, nil
}

// UDPAddr returns e as a *net.UDPAddr suitable for WriteTo.
func (e Endpoint) UDPAddr() *net.UDPAddr {
	return net.UDPAddrFromAddrPort(netip.AddrPortFrom(e.IP, e.Port))
}

// String returns "ip:port".
func (e Endpoint) String() string {
	return e.IP.String() + ":" + strconv.Itoa(int(e.Port))
}
