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

// Package metrics counts what the chat room does at runtime: datagrams read
// and written, peers joining and leaving, and tasks flowing through the
// worker pool. It is a cheap way to see where a busy room spends its time.
package metrics

import (
	"time"

	"go.uber.org/atomic"

	"github.com/H0308/simple-chat-room-udp/log"
)

// All metrics definitions.
const (
	// The following constants are UDP metrics.

	UDPRecvCalls = iota
	UDPRecvFails
	UDPSendCalls
	UDPSendFails
	PacketsMalformed

	// The following constants are room metrics.

	PeersJoined
	PeersLeft
	Broadcasts
	Translations

	// The following constants are worker pool metrics.

	TasksPushed
	TasksDropped
	TasksExecuted
	TaskPanics

	// Keep it last.

	Max
)

var (
	metrics [Max]atomic.Uint64
)

// Add metrics counter.
func Add(name int, delta uint64) {
	if name < 0 || name >= Max {
		return
	}
	metrics[name].Add(delta)
}

// Get one metric counter.
func Get(name int) uint64 {
	if name < 0 || name >= Max {
		return 0
	}
	return metrics[name].Load()
}

// GetAll get all metrics.
func GetAll() [Max]uint64 {
	var m [Max]uint64
	for i := range metrics {
		m[i] = metrics[i].Load()
	}
	return m
}

// ShowMetricsOfPeriod shows metric info of duration d from now on.
// It will block d duration, and then prints metrics info.
func ShowMetricsOfPeriod(d time.Duration) {
	old := GetAll()
	<-time.After(d)
	new := GetAll()
	var m [Max]uint64
	for i := range metrics {
		m[i] = new[i] - old[i]
	}
	showAll(m)
}

// ShowMetrics shows metric info in console.
func ShowMetrics() {
	m := GetAll()
	showAll(m)
}

func showAll(m [Max]uint64) {
	log.Debug("######### chat room metrics (", time.Now().Format("2006-01-02 15:04:05"), ") ###########")
	showUDPMetrics(m)
	showRoomMetrics(m)
	showPoolMetrics(m)
}

func showUDPMetrics(m [Max]uint64) {
	log.Debugf("%-50s: %d", "# UDP - number of ReadFrom calls", m[UDPRecvCalls])
	log.Debugf("%-50s: %d", "# UDP - number of failed ReadFrom calls", m[UDPRecvFails])
	log.Debugf("%-50s: %d", "# UDP - number of WriteTo calls", m[UDPSendCalls])
	log.Debugf("%-50s: %d", "# UDP - number of failed WriteTo calls", m[UDPSendFails])
	log.Debugf("%-50s: %d", "# UDP - number of malformed datagrams dropped", m[PacketsMalformed])
}

func showRoomMetrics(m [Max]uint64) {
	log.Debugf("%-50s: %d", "# ROOM - number of peers joined", m[PeersJoined])
	log.Debugf("%-50s: %d", "# ROOM - number of peers left", m[PeersLeft])
	log.Debugf("%-50s: %d", "# ROOM - number of broadcasts", m[Broadcasts])
	if m[Broadcasts] > 0 {
		log.Debugf("%-50s: %.2f", "# ROOM - average sends per broadcast",
			float64(m[UDPSendCalls])/float64(m[Broadcasts]))
	}
	log.Debugf("%-50s: %d", "# ROOM - number of translations", m[Translations])
}

func showPoolMetrics(m [Max]uint64) {
	log.Debugf("%-50s: %d", "# POOL - number of tasks pushed", m[TasksPushed])
	log.Debugf("%-50s: %d", "# POOL - number of tasks dropped after stop", m[TasksDropped])
	log.Debugf("%-50s: %d", "# POOL - number of tasks executed", m[TasksExecuted])
	log.Debugf("%-50s: %d", "# POOL - number of tasks that panicked", m[TaskPanics])
}
