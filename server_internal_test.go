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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	payload string
	addr    string
}

// fakePacketConn records writes; reads are never issued by these tests.
type fakePacketConn struct {
	net.PacketConn
	mu     sync.Mutex
	writes []write
}

func (c *fakePacketConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 8080}
}

func (c *fakePacketConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, write{payload: string(p), addr: addr.String()})
	return len(p), nil
}

func (c *fakePacketConn) Close() error { return nil }

func (c *fakePacketConn) recorded() []write {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]write(nil), c.writes...)
}

type recordingQueue struct {
	tasks []Broadcast
}

func (q *recordingQueue) Push(task Broadcast) bool {
	q.tasks = append(q.tasks, task)
	return true
}

func (q *recordingQueue) messages() []string {
	var m []string
	for _, task := range q.tasks {
		m = append(m, task.Message)
	}
	return m
}

func newTestServer(t *testing.T) (*Server, *fakePacketConn, *recordingQueue) {
	conn := &fakePacketConn{}
	s, err := NewServer(conn, WithLogger(nopLogger{}))
	require.Nil(t, err)
	q := &recordingQueue{}
	s.queue = q
	return s, conn, q
}

func udpAddr(ip string, port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
}

func TestHandleJoin(t *testing.T) {
	s, _, q := newTestServer(t)
	s.handlePacket([]byte("bob:online"), udpAddr("10.0.0.5", 4000))

	peers := s.Registry().Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, "bob", peers[0].Name)
	assert.Equal(t, "10.0.0.5:4000", peers[0].Endpoint.String())
	assert.Equal(t, []string{"bob:(10.0.0.5:4000): online"}, q.messages())
}

func TestHandleChat(t *testing.T) {
	s, _, q := newTestServer(t)
	s.handlePacket([]byte("bob:hello"), udpAddr("10.0.0.5", 4000))
	assert.Equal(t, 0, s.Registry().Len())
	assert.Equal(t, []string{"bob: hello"}, q.messages())
}

func TestHandleMalformed(t *testing.T) {
	s, _, q := newTestServer(t)
	for _, payload := range []string{"bob:", "bob", ""} {
		s.handlePacket([]byte(payload), udpAddr("10.0.0.5", 4000))
	}
	assert.Equal(t, 0, s.Registry().Len())
	assert.Empty(t, q.tasks)
}

func TestHandleNonIPv4Sender(t *testing.T) {
	s, _, q := newTestServer(t)
	s.handlePacket([]byte("bob:online"), udpAddr("::1", 4000))
	assert.Equal(t, 0, s.Registry().Len())
	assert.Empty(t, q.tasks)
}

func TestHandleJoinLeaveIdempotent(t *testing.T) {
	s, _, q := newTestServer(t)
	from := udpAddr("10.0.0.7", 5000)

	s.handlePacket([]byte("alice:online"), from)
	s.handlePacket([]byte("alice:online"), from)
	assert.Equal(t, 1, s.Registry().Len())

	s.handlePacket([]byte("alice:quit"), from)
	assert.Equal(t, 0, s.Registry().Len())
	s.handlePacket([]byte("alice:quit"), from)
	assert.Equal(t, 0, s.Registry().Len())

	assert.Equal(t, []string{
		"alice:(10.0.0.7:5000): online",
		"alice:(10.0.0.7:5000): online",
		"alice:(10.0.0.7:5000) offline",
		"alice:(10.0.0.7:5000) offline",
	}, q.messages())
}

func TestHandleJoinBroadcastReachesEveryone(t *testing.T) {
	conn := &fakePacketConn{}
	s, err := NewServer(conn, WithWorkers(3), WithLogger(nopLogger{}))
	require.Nil(t, err)
	require.Nil(t, s.pool.Start())

	s.handlePacket([]byte("alice:online"), udpAddr("10.0.0.4", 4000))
	s.handlePacket([]byte("bob:online"), udpAddr("10.0.0.5", 4000))
	s.pool.Stop()
	s.pool.Join()

	var bobJoin []string
	for _, w := range conn.recorded() {
		if w.payload == "bob:(10.0.0.5:4000): online" {
			bobJoin = append(bobJoin, w.addr)
		}
	}
	// Broadcasts may run in any order, but bob's announcement is sent after
	// bob was registered, so both peers get it.
	assert.ElementsMatch(t, []string{"10.0.0.4:4000", "10.0.0.5:4000"}, bobJoin)
}

func TestHandlePacketDoesNotBlockOnSend(t *testing.T) {
	conn := &fakePacketConn{}
	s, err := NewServer(conn, WithWorkers(1), WithLogger(nopLogger{}))
	require.Nil(t, err)
	require.Nil(t, s.pool.Start())
	defer func() {
		s.pool.Stop()
		s.pool.Join()
	}()

	// Hold the registry lock so any broadcast stalls on a worker.
	s.registry.mu.Lock()
	done := make(chan struct{})
	go func() {
		s.handlePacket([]byte("bob:hello"), udpAddr("10.0.0.5", 4000))
		s.handlePacket([]byte("bob:again"), udpAddr("10.0.0.5", 4000))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("receive path blocked behind a broadcast")
	}
	s.registry.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Debug(args ...any)                 {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Info(args ...any)                  {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warn(args ...any)                  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Error(args ...any)                 {}
func (nopLogger) Errorf(format string, args ...any) {}
func (nopLogger) Fatal(args ...any)                 {}
func (nopLogger) Fatalf(format string, args ...any) {}
