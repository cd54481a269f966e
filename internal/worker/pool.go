package worker

import (
	"errors"
	"sync"
	"time"
)

// Task is a unit of work dispatched to the pool.
type Task func()

// ErrPoolBusy is returned by Submit when the task queue is full and the
// pool cannot grow any further.
var ErrPoolBusy = errors.New("worker pool is busy")

const defaultWorkerIdle = 30 * time.Second

// Pool is a bounded worker pool. It keeps at least min workers alive, grows
// up to max under load, and retires workers idle longer than the expiry.
type Pool struct {
	mu      sync.Mutex
	tasks   chan Task
	quit    chan struct{}
	min     int
	max     int
	running int
	idle    int
	expiry  time.Duration
	stopped bool
}

// NewPool creates a pool with min workers warmed up.
func NewPool(minWorkers, maxWorkers, queueSize int, idle time.Duration) *Pool {
	if minWorkers < 1 {
		minWorkers = 1
	}
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if idle <= 0 {
		idle = defaultWorkerIdle
	}
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		quit:   make(chan struct{}),
		min:    minWorkers,
		max:    maxWorkers,
		expiry: idle,
	}
	p.mu.Lock()
	for i := 0; i < minWorkers; i++ {
		p.spawnLocked()
	}
	p.mu.Unlock()
	return p
}

// Submit enqueues a task without blocking. When no worker is idle the pool
// grows up to max before giving up with ErrPoolBusy.
func (p *Pool) Submit(t Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolBusy
	}
	// grow when every idle worker already has a queued task waiting
	if p.idle <= len(p.tasks) && p.running < p.max {
		p.spawnLocked()
	}
	p.mu.Unlock()

	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrPoolBusy
	}
}

// Stop shuts the pool down. Queued tasks are dropped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	close(p.quit)
}

// Running reports the current worker count.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Pool) spawnLocked() {
	p.running++
	p.idle++
	go p.workerLoop()
}

func (p *Pool) workerLoop() {
	timer := time.NewTimer(p.expiry)
	defer timer.Stop()
	for {
		select {
		case <-p.quit:
			p.retire()
			return
		case t := <-p.tasks:
			p.markBusy()
			t()
			p.markIdle()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.expiry)
		case <-timer.C:
			if p.tryRetire() {
				return
			}
			timer.Reset(p.expiry)
		}
	}
}

func (p *Pool) markBusy() {
	p.mu.Lock()
	p.idle--
	p.mu.Unlock()
}

func (p *Pool) markIdle() {
	p.mu.Lock()
	p.idle++
	p.mu.Unlock()
}

// tryRetire lets a worker exit after the idle expiry, but never below min.
func (p *Pool) tryRetire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running <= p.min {
		return false
	}
	p.running--
	p.idle--
	return true
}

func (p *Pool) retire() {
	p.mu.Lock()
	p.running--
	p.idle--
	p.mu.Unlock()
}
