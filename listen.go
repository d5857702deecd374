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
	"fmt"
	"net"

	goreuseport "github.com/kavu/go_reuseport"

	"github.com/H0308/simple-chat-room-udp/internal/netutil"
)

// Steps of ListenUDP that can fail.
const (
	OpSocket = "socket"
	OpBind   = "bind"
	OpFile   = "file"
)

// ListenError reports which step of ListenUDP failed.
type ListenError struct {
	Op   string
	Port uint16
	Err  error
}

// Error implements error.
func (e *ListenError) Error() string {
	return fmt.Sprintf("listen udp 0.0.0.0:%d: %s: %v", e.Port, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenError) Unwrap() error {
	return e.Err
}

// ListenUDP binds a UDP socket on 0.0.0.0:port.
// Failures are reported as *ListenError. With WithReusePort the socket is
// created and bound in one step, so any failure is reported as OpBind.
func ListenUDP(port uint16, opt ...Option) (net.PacketConn, error) {
	opts := newOptions(opt...)
	if opts.reusePort {
		return listenReusePort(port, opts)
	}

	fd, err := netutil.SocketUDP4()
	if err != nil {
		return nil, &ListenError{Op: OpSocket, Port: port, Err: err}
	}
	opts.logger.Infof("udp socket created: %d", fd)
	if opts.recvBufferSize > 0 {
		if err := netutil.SetRecvBufferFD(fd, opts.recvBufferSize); err != nil {
			opts.logger.Warnf("udp socket %d: %v", fd, err)
		}
	}
	if err := netutil.BindUDP4(fd, &net.UDPAddr{Port: int(port)}); err != nil {
		netutil.CloseFD(fd)
		return nil, &ListenError{Op: OpBind, Port: port, Err: err}
	}
	conn, err := netutil.FilePacketConn(fd)
	if err != nil {
		return nil, &ListenError{Op: OpFile, Port: port, Err: err}
	}
	opts.logger.Infof("udp socket bound to %s", conn.LocalAddr())
	logRecvBuffer(conn, opts)
	return conn, nil
}

func listenReusePort(port uint16, opts options) (net.PacketConn, error) {
	conn, err := goreuseport.ListenPacket("udp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, &ListenError{Op: OpBind, Port: port, Err: err}
	}
	if opts.recvBufferSize > 0 {
		if err := netutil.SetRecvBuffer(conn, opts.recvBufferSize); err != nil {
			opts.logger.Warnf("udp socket %s: %v", conn.LocalAddr(), err)
		}
	}
	opts.logger.Infof("udp socket bound to %s with SO_REUSEPORT", conn.LocalAddr())
	logRecvBuffer(conn, opts)
	return conn, nil
}

// logRecvBuffer reports the SO_RCVBUF the kernel actually granted, which
// may differ from the requested size.
func logRecvBuffer(conn net.PacketConn, opts options) {
	if opts.recvBufferSize <= 0 {
		return
	}
	size, err := netutil.RecvBuffer(conn)
	if err != nil {
		opts.logger.Warnf("udp socket %s: read SO_RCVBUF: %v", conn.LocalAddr(), err)
		return
	}
	opts.logger.Infof("udp socket %s: SO_RCVBUF %d (requested %d)", conn.LocalAddr(), size, opts.recvBufferSize)
}
