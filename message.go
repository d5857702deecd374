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
	"fmt"
	"strings"
)

// Reserved message bodies.
const (
	BodyOnline = "online"
	BodyQuit   = "quit"
)

const separator = ":"

// Kind classifies a datagram by its body.
type Kind int

// Message kinds.
const (
	KindChat Kind = iota
	KindJoin
	KindLeave
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindLeave:
		return "leave"
	default:
		return "chat"
	}
}

// Message is a parsed "<identity>:<body>" datagram.
type Message struct {
	Kind     Kind
	Identity string
	Body     string
}

// ParseMessage splits payload on its first colon. It reports false when
// there is no colon or the body is empty; such datagrams are noise.
func ParseMessage(payload []byte) (Message, bool) {
	identity, body, ok := strings.Cut(string(payload), separator)
	if !ok || body == "" {
		return Message{}, false
	}
	m := Message{Identity: identity, Body: body}
	switch body {
	case BodyOnline:
		m.Kind = KindJoin
	case BodyQuit:
		m.Kind = KindLeave
	default:
		m.Kind = KindChat
	}
	return m, true
}

// FormatRequest builds the datagram a client sends.
func FormatRequest(identity, body string) string {
	return identity + separator + body
}

// JoinAnnouncement is broadcast when identity comes online from ep.
func JoinAnnouncement(identity string, ep Endpoint) string {
	return fmt.Sprintf("%s:(%s:%d): online", identity, ep.IP, ep.Port)
}

// LeaveAnnouncement is broadcast when identity at ep quits.
func LeaveAnnouncement(identity string, ep Endpoint) string {
	return fmt.Sprintf("%s:(%s:%d) offline", identity, ep.IP, ep.Port)
}

// ChatLine is broadcast for every other message.
func ChatLine(identity, body string) string {
	return identity + ": " + body
}

// Announcement returns the line broadcast for m sent from ep.
func (m Message) Announcement(ep Endpoint) string {
	switch m.Kind {
	case KindJoin:
		return JoinAnnouncement(m.Identity, ep)
	case KindLeave:
		return LeaveAnnouncement(m.Identity, ep)
	default:
		return ChatLine(m.Identity, m.Body)
	}
}
