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
	"sync"

	"github.com/H0308/simple-chat-room-udp/log"
	"github.com/H0308/simple-chat-room-udp/metrics"
)

// Registry is the set of peers currently in the room, kept in join order.
// Membership changes and broadcasts hold the same lock, so a broadcast sees
// one consistent membership from start to end.
type Registry struct {
	mu     sync.Mutex
	peers  []Peer
	logger log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return newRegistry(log.Default)
}

func newRegistry(logger log.Logger) *Registry {
	return &Registry{logger: logger}
}

// Add appends p unless an equal peer is already present.
// It reports whether p was added.
func (r *Registry) Add(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.peers {
		if q == p {
			r.logger.Debugf("registry: %s is already online", p)
			return false
		}
	}
	r.peers = append(r.peers, p)
	r.logOnline()
	return true
}

// Remove deletes every peer equal to p and reports whether any was found.
func (r *Registry) Remove(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.peers[:0]
	for _, q := range r.peers {
		if q != p {
			kept = append(kept, q)
		}
	}
	removed := len(kept) != len(r.peers)
	for i := len(kept); i < len(r.peers); i++ {
		r.peers[i] = Peer{}
	}
	r.peers = kept
	if removed {
		r.logOnline()
	}
	return removed
}

// Broadcast sends message to every peer over conn, in join order, and
// returns how many sends succeeded. A failed send is logged and skipped.
func (r *Registry) Broadcast(conn Sender, message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics.Add(metrics.Broadcasts, 1)
	sent := 0
	for _, p := range r.peers {
		if err := p.Send(conn, message); err != nil {
			r.logger.Warnf("registry: %v", err)
			continue
		}
		r.logger.Debugf("registry: sent %q to %s", message, p)
		sent++
	}
	return sent
}

// Len returns the number of peers online.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// Peers returns a copy of the peers online, in join order.
func (r *Registry) Peers() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Peer(nil), r.peers...)
}

// logOnline must be called with r.mu held.
func (r *Registry) logOnline() {
	for _, p := range r.peers {
		r.logger.Debugf("registry: online %s", p)
	}
}
