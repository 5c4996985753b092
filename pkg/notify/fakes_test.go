package notify

import (
	"bytes"
	"context"
	"sync"

	"github.com/roboricindustries/raycon-notify/pkg/schemas/common"
)

type fakeStorage struct {
	mu       sync.Mutex
	pointer  string
	err      error
	payloads [][]byte
}

func (f *fakeStorage) Put(_ context.Context, payload []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, bytes.Clone(payload))
	if f.err != nil {
		return "", f.err
	}
	return f.pointer, nil
}

func (f *fakeStorage) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type fakeTx struct {
	hash    string
	waitErr error
	// block makes Wait return only once ctx is done.
	block bool
	depth *uint64
}

func (t fakeTx) Hash() string { return t.hash }

func (t fakeTx) Wait(ctx context.Context, confirmations uint64) error {
	if t.depth != nil {
		*t.depth = confirmations
	}
	if t.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return t.waitErr
}

type sent struct {
	recipient string
	identity  string
}

type fakeLedger struct {
	mu      sync.Mutex
	tx      fakeTx
	sendErr error
	sent    []sent
}

func (f *fakeLedger) SendNotification(_ context.Context, recipient string, identity []byte) (PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{recipient: recipient, identity: string(identity)})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.tx, nil
}

func (f *fakeLedger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeRegistry struct {
	mu    sync.Mutex
	keys  map[string][]byte
	err   error
	calls int
}

func (f *fakeRegistry) PublicKey(_ context.Context, address string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.keys[address], nil
}

type published struct {
	key string
	env common.Envelope
}

type fakeEvents struct {
	mu  sync.Mutex
	out []published
	err error
}

func (f *fakeEvents) Publish(_ context.Context, key string, msg common.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, published{key: key, env: msg})
	return f.err
}
