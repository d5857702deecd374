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

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package netutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

const (
	// SockaddrSize is the size of a raw IPv4 socket address.
	SockaddrSize = unix.SizeofSockaddrInet4
)

// HostToNetwork16 converts a 16 bit value from host to network byte order.
func HostToNetwork16(v uint16) uint16 {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return binary.NativeEndian.Uint16(b[:])
}

// NetworkToHost16 converts a 16 bit value from network to host byte order.
func NetworkToHost16(v uint16) uint16 {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], v)
	return binary.BigEndian.Uint16(b[:])
}

// SockaddrInet4ToUDPAddr converts a SockaddrInet4 to a net.UDPAddr.
func SockaddrInet4ToUDPAddr(sa *unix.SockaddrInet4) *net.UDPAddr {
	ip := make(net.IP, net.IPv4len)
	copy(ip, sa.Addr[:])
	return &net.UDPAddr{IP: ip, Port: sa.Port}
}

// UDPAddrToSockaddrInet4 converts an IPv4 net.UDPAddr to a SockaddrInet4.
// An empty IP is treated as the wildcard address.
func UDPAddrToSockaddrInet4(addr *net.UDPAddr) (*unix.SockaddrInet4, error) {
	if addr == nil {
		return nil, errors.New("nil udp addr")
	}
	ip := addr.IP
	if len(ip) == 0 {
		ip = net.IPv4zero
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("non-IPv4 address:%s", ip.String())
	}
	if addr.Port < 0 || addr.Port > 0xffff {
		return nil, fmt.Errorf("port out of range:%d", addr.Port)
	}
	sa := &unix.SockaddrInet4{Port: addr.Port}
	copy(sa.Addr[:], ip4)
	return sa, nil
}

// SockaddrInet4ToSlice builds the raw sockaddr_in bytes for ip and port.
// The family is stored in host byte order, the port in network byte order.
func SockaddrInet4ToSlice(ip [4]byte, port uint16) []byte {
	sockaddr := make([]byte, SockaddrSize)
	binary.NativeEndian.PutUint16(sockaddr[:2], unix.AF_INET)
	binary.NativeEndian.PutUint16(sockaddr[2:4], HostToNetwork16(port))
	copy(sockaddr[4:8], ip[:])
	return sockaddr
}

// SliceToSockaddrInet4 parses raw sockaddr_in bytes back into ip and port.
func SliceToSockaddrInet4(sockaddr []byte) (ip [4]byte, port uint16, err error) {
	if len(sockaddr) != SockaddrSize {
		return ip, 0, errors.New("invalid sockaddr")
	}
	if family := binary.NativeEndian.Uint16(sockaddr[:2]); family != unix.AF_INET {
		return ip, 0, fmt.Errorf("unknown net family %d", family)
	}
	copy(ip[:], sockaddr[4:8])
	return ip, NetworkToHost16(binary.NativeEndian.Uint16(sockaddr[2:4])), nil
}

// TestableNetwork checks whether the network is testable, only used for unit test.
func TestableNetwork(network string) bool {
	switch network {
	case "udp4":
		return hasIPv4Addr()
	case "udp":
		return hasIPv4Addr() || hasIPv6Addr()
	default:
		return false
	}
}

func hasIPv4Addr() bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		ip, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip.IP.To4() != nil {
			return true
		}
	}
	return false
}

func hasIPv6Addr() bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		ip, ok := addr.(*net.IPNet)
		if !ok || ip.IP.To4() != nil {
			continue
		}
		return true
	}
	return false
}

// ValidateUDP validates that conn is listening on UDP.
func ValidateUDP(conn net.PacketConn) error {
	switch network := conn.LocalAddr().Network(); network {
	case "udp", "udp4", "udp6":
		return nil
	default:
		return fmt.Errorf("expected listen on UDP, actual listen on %s", network)
	}
}
