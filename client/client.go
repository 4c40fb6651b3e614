// Package wl is a Wayland protocol client. It implements the core
// protocol objects needed to put shared-memory buffers on screen.
package wl

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"deedles.dev/wlpaper/internal/debug"
	"deedles.dev/wlpaper/internal/ev"
	"deedles.dev/wlpaper/internal/objstore"
	"deedles.dev/wlpaper/wire"
)

// Client is a connection to a Wayland compositor.
//
// Incoming messages are read and decoded by a background goroutine,
// but they are only dispatched to their objects by Dispatch, so all
// event handlers run on the goroutine that calls it. Outgoing requests
// are buffered until Flush.
type Client struct {
	done  chan struct{}
	close sync.Once
	conn  *wire.Conn
	store *objstore.Store
	queue *ev.Queue
	out   []*wire.MessageBuilder
}

// Dial connects to the compositor indicated by the environment.
func Dial() (*Client, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, err
	}

	return NewClient(c), nil
}

// NewClient creates a Client on top of an already established
// connection. The Client takes ownership of conn.
func NewClient(conn *wire.Conn) *Client {
	client := Client{
		done:  make(chan struct{}),
		conn:  conn,
		store: objstore.New(1),
		queue: ev.NewQueue(),
	}

	display := Display{}
	client.Add(&display)

	go client.listen()

	return &client
}

func (client *Client) listen() {
	for {
		msg, err := wire.ReadMessage(client.conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			// The stream can't be resynchronized after a failed read, so
			// report the error and stop.
			select {
			case <-client.done:
			case client.queue.Add() <- func() error { return fmt.Errorf("read message: %w", err) }:
			}
			return
		}

		select {
		case <-client.done:
			return
		case client.queue.Add() <- func() error { return client.dispatch(msg) }:
		}
	}
}

func (client *Client) dispatch(msg *wire.MessageBuffer) error {
	// The server may send events to an object before it sees the
	// request that destroyed it.
	if z, ok := client.store.Get(msg.Sender()).(interface{ Destroyed() bool }); ok && z.Destroyed() {
		debug.Printf("ignoring op%v for destroyed object %v", msg.Op(), msg.Sender())
		return nil
	}

	obj, err := client.store.Dispatch(msg)
	if obj != nil {
		debug.Printf("%v", msg.Debug(obj))
	}
	return err
}

// Display returns the wl_display singleton.
func (client *Client) Display() *Display {
	return client.store.Get(1).(*Display)
}

// Close closes the connection. A Dispatch that is blocked waiting for
// events returns net.ErrClosed. Close is safe to call from any
// goroutine.
func (client *Client) Close() error {
	var err error
	client.close.Do(func() {
		close(client.done)
		client.queue.Stop()
		err = client.conn.Close()
	})
	return err
}

// Add registers obj with the client, assigning it a new ID.
func (client *Client) Add(obj Object) {
	obj.SetClient(client)
	client.store.Add(obj)
}

func (client *Client) Get(id uint32) wire.Object {
	return client.store.Get(id)
}

// Delete releases the ID of an object. It is called when the server
// confirms the deletion of an object with wl_display.delete_id.
func (client *Client) Delete(id uint32) {
	client.store.Delete(id)
}

// Enqueue buffers a request to be sent by the next Flush.
func (client *Client) Enqueue(msg *wire.MessageBuilder) {
	client.out = append(client.out, msg)
}

// Flush sends all buffered requests in the order that they were
// enqueued.
func (client *Client) Flush() error {
	out := client.out
	client.out = nil

	var errs []error
	for _, msg := range out {
		debug.Printf(" -> %v", msg)
		err := msg.Build(client.conn)
		if err != nil {
			errs = append(errs, fmt.Errorf("send %v: %w", msg, err))
		}
	}
	return errors.Join(errs...)
}

// Dispatch flushes pending requests, blocks until at least one event
// has arrived, and then dispatches every event that has arrived so
// far. Requests made by event handlers are flushed before it returns.
func (client *Client) Dispatch() error {
	err := client.Flush()
	if err != nil {
		return err
	}

	select {
	case <-client.done:
		return net.ErrClosed
	case events := <-client.queue.Get():
		errs := ev.Flush(events)
		errs = append(errs, client.Flush())
		return errors.Join(errs...)
	}
}

// RoundTrip blocks until the server has processed every request sent
// so far and every event that it sent in response has been
// dispatched.
func (client *Client) RoundTrip() error {
	var done bool
	client.Display().Sync().Done = func(uint32) { done = true }

	for !done {
		err := client.Dispatch()
		if err != nil {
			return fmt.Errorf("round trip: %w", err)
		}
	}
	return nil
}
