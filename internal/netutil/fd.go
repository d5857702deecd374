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

// Package netutil provides socket level helpers for the chat room.
package netutil

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Control runs f with the file descriptor behind socket.
// The socket must implement syscall.Conn.
func Control(socket any, f func(fd int) error) error {
	conn, ok := socket.(syscall.Conn)
	if !ok {
		return fmt.Errorf("type %T doesn't implement syscall.Conn interface", socket)
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("get raw connection fail %w", err)
	}
	var opErr error
	if err := rawConn.Control(func(sysfd uintptr) {
		opErr = f(int(sysfd))
	}); err != nil {
		return err
	}
	return opErr
}

// SetRecvBuffer sets SO_RCVBUF on socket.
func SetRecvBuffer(socket any, size int) error {
	return Control(socket, func(fd int) error {
		return SetRecvBufferFD(fd, size)
	})
}

// SetRecvBufferFD sets SO_RCVBUF on fd.
func SetRecvBufferFD(fd int, size int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, size); err != nil {
		return fmt.Errorf("setsockopt SO_RCVBUF %d: %w", size, err)
	}
	return nil
}

// RecvBuffer reads SO_RCVBUF from socket.
func RecvBuffer(socket any) (int, error) {
	var size int
	err := Control(socket, func(fd int) error {
		var err error
		size, err = unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
		return err
	})
	return size, err
}
