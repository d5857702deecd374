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

package netutil

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// SocketUDP4 creates a blocking close-on-exec IPv4 datagram socket.
func SocketUDP4() (int, error) {
	syscall.ForkLock.RLock()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err == nil {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return -1, os.NewSyscallError("socket", err)
	}
	return fd, nil
}

// BindUDP4 binds fd to addr. A nil or empty IP binds the wildcard address.
func BindUDP4(fd int, addr *net.UDPAddr) error {
	sa, err := UDPAddrToSockaddrInet4(addr)
	if err != nil {
		return err
	}
	if err := unix.Bind(fd, sa); err != nil {
		return os.NewSyscallError("bind", err)
	}
	return nil
}

// CloseFD closes a socket that never made it into a net.PacketConn.
func CloseFD(fd int) error {
	return unix.Close(fd)
}

// FilePacketConn turns a bound datagram fd into a net.PacketConn.
// fd is always consumed: on success the returned conn owns a duplicate and
// the original is closed, on failure the original is closed.
func FilePacketConn(fd int) (net.PacketConn, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("udp4:%d", fd))
	defer f.Close()
	conn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, err
	}
	if err := ValidateUDP(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
