package pubsub

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

var (
	errPoolClosed = errors.New("channel pool closed")
	errConnClosed = errors.New("amqp connection closed")
)

const defaultPoolSize = 8

type channelOpener interface {
	Channel() (*amqp091.Channel, error)
	IsClosed() bool
}

// confirmPool keeps up to size idle confirm-mode channels. A channel is handed
// to one publisher at a time and goes back only after its confirm arrived.
type confirmPool struct {
	conn channelOpener
	mu   sync.Mutex
	idle []*amqp091.Channel
	size int

	closed bool
}

func newConfirmPool(conn channelOpener, size int) *confirmPool {
	if size <= 0 {
		size = defaultPoolSize
	}
	return &confirmPool{conn: conn, size: size}
}

func (p *confirmPool) get() (*amqp091.Channel, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errPoolClosed
	}
	for len(p.idle) > 0 {
		ch := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		if !ch.IsClosed() {
			p.mu.Unlock()
			return ch, nil
		}
	}
	p.mu.Unlock()

	if p.conn.IsClosed() {
		return nil, errConnClosed
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		safeClose(ch)
		return nil, fmt.Errorf("confirm mode: %w", err)
	}
	return ch, nil
}

// put returns a healthy channel; extra or closed channels are dropped.
func (p *confirmPool) put(ch *amqp091.Channel) {
	p.mu.Lock()
	if !p.closed && !ch.IsClosed() && len(p.idle) < p.size {
		p.idle = append(p.idle, ch)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	safeClose(ch)
}

// discard closes a channel that may still owe a confirm.
func (p *confirmPool) discard(ch *amqp091.Channel) { safeClose(ch) }

func (p *confirmPool) close() {
	p.mu.Lock()
	idle := p.idle
	p.idle, p.closed = nil, true
	p.mu.Unlock()
	for _, ch := range idle {
		safeClose(ch)
	}
}

func safeClose(ch *amqp091.Channel) {
	if ch == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = ch.Close()
}
