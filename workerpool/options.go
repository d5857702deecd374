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

package workerpool

import "github.com/H0308/simple-chat-room-udp/log"

// Option pool option.
type Option struct {
	f func(*options)
}

type options struct {
	name   string
	logger log.Logger
}

// WithName sets the prefix of worker names shown in logs.
func WithName(name string) Option {
	return Option{func(op *options) {
		if name != "" {
			op.name = name
		}
	}}
}

// WithLogger sets the logger used for worker lifecycle and task panics.
func WithLogger(l log.Logger) Option {
	return Option{func(op *options) {
		if l != nil {
			op.logger = l
		}
	}}
}
