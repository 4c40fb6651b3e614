package wl

import "deedles.dev/wlpaper/wire"

// Object is a client-side protocol object that can be added to a
// Client. Implementations get most of the methods by embedding Proxy.
type Object interface {
	wire.Object

	SetClient(client *Client)
	SetVersion(version uint32)
}

// Proxy holds the state common to every client-side protocol object.
type Proxy struct {
	client    *Client
	id        uint32
	version   uint32
	destroyed bool
}

func (p *Proxy) ID() uint32 {
	return p.id
}

func (p *Proxy) SetID(id uint32) {
	p.id = id
}

func (p *Proxy) Client() *Client {
	return p.client
}

func (p *Proxy) SetClient(client *Client) {
	p.client = client
}

// Version is the protocol version the object was created with.
func (p *Proxy) Version() uint32 {
	return p.version
}

func (p *Proxy) SetVersion(version uint32) {
	p.version = version
}

// Destroyed reports whether a destructor request has been sent for
// the object.
func (p *Proxy) Destroyed() bool {
	return p.destroyed
}

// MarkDestroyed records that a destructor request has been sent.
// Requests on a destroyed object are dropped.
func (p *Proxy) MarkDestroyed() {
	p.destroyed = true
}

func (p *Proxy) Delete() {}

// Enqueue queues msg to be sent the next time the client is flushed.
// It is a no-op if the object has been destroyed.
func (p *Proxy) Enqueue(msg *wire.MessageBuilder) {
	if p.destroyed {
		return
	}
	p.client.Enqueue(msg)
}
