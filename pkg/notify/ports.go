package notify

import "context"

// Storage writes a payload to content-addressed storage and returns its pointer.
type Storage interface {
	Put(ctx context.Context, payload []byte) (string, error)
}

// Ledger submits notifications to the protocol contract.
type Ledger interface {
	SendNotification(ctx context.Context, recipient string, identity []byte) (PendingTx, error)
}

// PendingTx is a submitted transaction.
type PendingTx interface {
	Hash() string
	// Wait blocks until the transaction has the given number of confirmations.
	Wait(ctx context.Context, confirmations uint64) error
}

// KeyRegistry reads encryption keys registered on-chain. A recipient that never
// registered yields nil, nil.
type KeyRegistry interface {
	PublicKey(ctx context.Context, address string) ([]byte, error)
}
