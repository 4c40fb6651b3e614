// Package ev implements the queue that carries decoded events from a
// connection's reader goroutine to the goroutine that dispatches them.
package ev

import "deedles.dev/xsync/cq"

// Queue collects events as they arrive and hands them out in batches.
type Queue = cq.BulkQueue[func() error, *Events]

func NewQueue() *Queue {
	return cq.New(func(v []func() error) *Events {
		return &Events{
			events: v,
		}
	})
}

// Events represents a series of events from a Client's event queue.
type Events struct {
	events []func() error
}

// Flush processes all of the events in queue in order and returns
// every error that they produced.
func Flush(queue *Events) (errs []error) {
	for _, ev := range queue.events {
		err := ev()
		if err != nil {
			errs = append(errs, err)
		}
	}
	queue.events = nil
	return errs
}
