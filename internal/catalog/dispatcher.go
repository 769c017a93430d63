package catalog

import "errors"

// ErrClosed is returned by operations on a closed ViewModel
var ErrClosed = errors.New("view model closed")

// dispatcher runs jobs one at a time on a single goroutine.
// Every read or write of view-model cursor state and every publish goes through it.
type dispatcher struct {
	jobs chan func()
	done chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	for {
		select {
		case job := <-d.jobs:
			job()
		case <-d.done:
			return
		}
	}
}

// call runs fn on the dispatcher goroutine and waits for it to finish
func (d *dispatcher) call(fn func()) error {
	finished := make(chan struct{})
	select {
	case d.jobs <- func() {
		defer close(finished)
		fn()
	}:
	case <-d.done:
		return ErrClosed
	}
	<-finished
	return nil
}

func (d *dispatcher) stop() {
	close(d.done)
}
