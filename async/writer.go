// Scheduler design adapted from Egon's https://github.com/egonelbre/expgio.
package async

import (
	"runtime"
	"sync"
)

// Scheduler schedules work according to some strategy. Implementations
// can implement the best way to distribute work for a given
// application.
type Scheduler interface {
	// Schedule a piece of work. This method is allowed to block.
	Schedule(func())
}

// SerialQueue executes work one piece at a time, in submission order.
// This is the right strategy for store mutations, where a delete must
// observe the recall that preceded it.
type SerialQueue struct {
	queue chan func()
	sync.Once
}

// Schedule work to be executed in order. Blocks if the queue is full.
func (q *SerialQueue) Schedule(work func()) {
	q.Once.Do(func() {
		q.queue = make(chan func())
		go func() {
			for w := range q.queue {
				if w != nil {
					w()
				}
			}
		}()
	})
	q.queue <- work
}

// FixedWorkerPool implements a simple fixed-size worker pool that lets
// the go runtime schedule work atop some number of goroutines. Work
// ordering is not preserved; use one pool across independent writers,
// not within one.
type FixedWorkerPool struct {
	// Workers specifies the number of concurrent workers in this pool.
	Workers int
	// queue of work. Unbuffered so it will block if the pool is at
	// capacity.
	queue chan func()
	sync.Once
}

// Schedule work to be executed by the available workers. This is a
// blocking call if all workers are busy.
func (p *FixedWorkerPool) Schedule(work func()) {
	p.Once.Do(func() {
		p.queue = make(chan func())
		if p.Workers <= 0 {
			p.Workers = runtime.NumCPU()
		}
		for ii := 0; ii < p.Workers; ii++ {
			go func() {
				for w := range p.queue {
					if w != nil {
						w()
					}
				}
			}()
		}
	})
	p.queue <- work
}

// Writer runs store mutations off the layout goroutine. Submissions on
// one Writer settle in order by default, and the Updated channel pings
// after each settlement so the window can be invalidated.
//
// There is no cancellation of in-flight work, and re-entrant identical
// submissions are not guarded against; callers that need debouncing
// must provide it themselves.
type Writer struct {
	// Scheduler provides scheduling behaviour. Defaults to a
	// SerialQueue.
	Scheduler Scheduler
	// updated reports that a submission has settled.
	updated chan struct{}
	// init allows Writer to have a useful zero value.
	init sync.Once
}

// Updated returns a channel that pings when a submission settles.
// Integrate it into the gio event loop to invalidate the window:
//
//	case <-writer.Updated():
//		w.Invalidate()
func (w *Writer) Updated() <-chan struct{} {
	w.init.Do(w.initialize)
	return w.updated
}

// Go submits the mutation. done, if non-nil, receives the mutation's
// error on the scheduler goroutine once it settles; the window is
// pinged either way. The view must not be considered in sync with the
// store until then.
func (w *Writer) Go(do func() error, done func(error)) {
	w.init.Do(w.initialize)
	w.Scheduler.Schedule(func() {
		err := do()
		if done != nil {
			done(err)
		}
		select {
		case w.updated <- struct{}{}:
		default:
		}
	})
}

func (w *Writer) initialize() {
	w.updated = make(chan struct{}, 1)
	if w.Scheduler == nil {
		w.Scheduler = &SerialQueue{}
	}
}
