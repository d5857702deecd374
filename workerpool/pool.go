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

// Package workerpool provides a fixed size pool of workers draining one shared
// FIFO task queue.
//
// A pool moves through Idle, Running, Draining and Stopped exactly once:
//
//	p := workerpool.New[MyTask](5)
//	p.Start()      // Idle -> Running, workers begin waiting for tasks
//	p.Push(task)   // accepted only while Running
//	p.Stop()       // Running -> Draining, queued tasks still run
//	p.Join()       // wait until every worker has exited, pool is Stopped
//
// The queue is unbounded. Under sustained overload it grows without limit.
package workerpool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/H0308/simple-chat-room-udp/log"
	"github.com/H0308/simple-chat-room-udp/metrics"
)

// DefaultWorkers is the number of workers used when a non-positive count is given.
const DefaultWorkers = 5

// Task is a unit of work executed by exactly one worker.
type Task interface {
	Run()
}

// State is the lifecycle state of a Pool.
type State int

// Pool states.
const (
	Idle State = iota
	Running
	Draining
	Stopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pool is a fixed set of workers sharing one FIFO queue of T.
type Pool[T Task] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []T
	state   State
	waiting int // workers blocked in cond.Wait
	alive   int // workers that have not left the drain loop
	workers int
	exited  sync.WaitGroup
	host    *ants.Pool
	opts    options
}

// New creates an idle pool of workers. A non-positive count means DefaultWorkers.
func New[T Task](workers int, opt ...Option) *Pool[T] {
	opts := options{name: "worker", logger: log.Default}
	for _, o := range opt {
		o.f(&opts)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool[T]{workers: workers, opts: opts}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start spawns the workers and moves the pool to Running.
// It is a no-op unless the pool is Idle.
func (p *Pool[T]) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		return nil
	}
	host, err := ants.NewPool(p.workers)
	if err != nil {
		return errors.Wrap(err, "create worker goroutine pool")
	}
	p.host = host
	p.state = Running
	for i := 0; i < p.workers; i++ {
		name := fmt.Sprintf("%s-%d", p.opts.name, i)
		p.alive++
		p.exited.Add(1)
		if err := host.Submit(func() { p.drain(name) }); err != nil {
			p.alive--
			p.exited.Done()
			p.opts.logger.Errorf("workerpool: start %s: %v", name, err)
			continue
		}
		p.opts.logger.Infof("workerpool: %s started", name)
	}
	return nil
}

// Push enqueues task if the pool is Running and reports whether it was accepted.
// Tasks pushed in any other state are dropped.
func (p *Pool[T]) Push(task T) bool {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		metrics.Add(metrics.TasksDropped, 1)
		return false
	}
	p.tasks = append(p.tasks, task)
	// One task can satisfy at most one idle worker.
	if p.waiting > 0 {
		p.cond.Signal()
	}
	p.mu.Unlock()
	metrics.Add(metrics.TasksPushed, 1)
	return true
}

// Stop stops accepting tasks. Workers keep draining what is already queued.
// Stopping a pool that was never started moves it straight to Stopped.
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case Idle:
		p.state = Stopped
	case Running:
		p.state = Draining
		if p.waiting > 0 {
			p.cond.Broadcast()
		}
	}
}

// Join blocks until every worker has left its drain loop.
// Joining a running pool blocks until some other goroutine calls Stop.
func (p *Pool[T]) Join() {
	p.exited.Wait()
	p.mu.Lock()
	host := p.host
	p.host = nil
	p.mu.Unlock()
	if host != nil {
		host.Release()
	}
}

// State returns the current lifecycle state.
func (p *Pool[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Workers returns the configured number of workers.
func (p *Pool[T]) Workers() int {
	return p.workers
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *Pool[T]) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *Pool[T]) drain(name string) {
	defer p.exit(name)
	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && p.state == Running {
			p.waiting++
			p.cond.Wait()
			p.waiting--
		}
		if len(p.tasks) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.tasks[0]
		var zero T
		p.tasks[0] = zero
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		p.run(name, task)
	}
}

// run executes task outside the pool lock. A panicking task is logged and
// the worker carries on with the next one.
func (p *Pool[T]) run(name string, task T) {
	defer func() {
		if r := recover(); r != nil {
			metrics.Add(metrics.TaskPanics, 1)
			p.opts.logger.Errorf("workerpool: %s: task panic: %v\n%s", name, r, debug.Stack())
		}
	}()
	task.Run()
	metrics.Add(metrics.TasksExecuted, 1)
}

func (p *Pool[T]) exit(name string) {
	p.mu.Lock()
	p.alive--
	if p.alive == 0 && p.state == Draining {
		p.state = Stopped
	}
	p.mu.Unlock()
	p.opts.logger.Infof("workerpool: %s exited", name)
	p.exited.Done()
}
