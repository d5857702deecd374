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

import (
	"reflect"
	"sync"
)

var shared sync.Map // reflect.Type -> *sharedSlot

type sharedSlot struct {
	once sync.Once
	pool any
}

// Shared returns the process wide pool for task type T, creating it on the
// first call. The first caller's worker count and options win; later calls
// get the same pool whatever they pass, even after it has been stopped.
func Shared[T Task](workers int, opt ...Option) *Pool[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	v, _ := shared.LoadOrStore(key, &sharedSlot{})
	slot := v.(*sharedSlot)
	slot.once.Do(func() {
		slot.pool = New[T](workers, opt...)
	})
	return slot.pool.(*Pool[T])
}
