package transport

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a pipe end is used before Connect or after
// Disconnect.
var ErrClosed = errors.New("transport closed")

const pipeBuffer = 64

// Pipe returns a connected pair of in-process transports. Payloads sent on
// one end are delivered, in order, to the handler installed on the other.
// Both ends must be connected before messages flow.
func Pipe() (*PipeEnd, *PipeEnd) {
	a := &PipeEnd{inbox: make(chan []byte, pipeBuffer)}
	b := &PipeEnd{inbox: make(chan []byte, pipeBuffer)}
	a.peer = b
	b.peer = a
	return a, b
}

// PipeEnd is one side of an in-process transport pair. Deliveries hop
// through a buffered queue drained by a dedicated goroutine, so a handler
// can call Send on its own end without deadlocking.
type PipeEnd struct {
	peer *PipeEnd

	mu        sync.Mutex
	handler   MessageHandler
	connected bool
	done      chan struct{}

	inbox chan []byte
}

func (p *PipeEnd) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return errors.New("pipe: already connected")
	}
	p.connected = true
	p.done = make(chan struct{})
	go p.drain(p.done)
	return nil
}

func (p *PipeEnd) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return nil
	}
	p.connected = false
	close(p.done)
	return nil
}

func (p *PipeEnd) Send(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return ErrClosed
	}

	msg := make([]byte, len(payload))
	copy(msg, payload)
	select {
	case p.peer.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PipeEnd) SetHandler(handler MessageHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
}

func (p *PipeEnd) drain(done chan struct{}) {
	for {
		select {
		case msg := <-p.inbox:
			p.mu.Lock()
			handler := p.handler
			p.mu.Unlock()
			if handler != nil {
				// Handler errors are the receiver's concern; the pipe
				// keeps delivering.
				_ = handler(context.Background(), msg)
			}
		case <-done:
			return
		}
	}
}
