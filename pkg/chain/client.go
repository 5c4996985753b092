// Package chain talks to the protocol core contract over JSON-RPC: it submits
// notification identities and reads the encryption keys recipients registered.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/roboricindustries/raycon-notify/pkg/notify"
)

const defaultPollInterval = 2 * time.Second

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrReverted       = errors.New("transaction reverted")
)

type Config struct {
	RPCURL      string
	CoreAddress string
	// PrivateKey of the channel owner, hex.
	PrivateKey string
	// ChainID; zero asks the node.
	ChainID int64
	// RegistryFromBlock bounds the public key log scan.
	RegistryFromBlock uint64
	// PollInterval between head checks while waiting for confirmations.
	PollInterval time.Duration
}

type backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client is both the notify.Ledger and the notify.KeyRegistry of a channel.
type Client struct {
	backend   backend
	abi       abi.ABI
	core      common.Address
	contract  *bind.BoundContract
	key       *ecdsa.PrivateKey
	from      common.Address
	chainID   *big.Int
	fromBlock uint64
	poll      time.Duration
	log       *slog.Logger
	close     func()
}

// Dial connects to cfg.RPCURL and resolves the chain ID when not configured.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	const op = "chain.Dial"

	if !common.IsHexAddress(cfg.CoreAddress) {
		return nil, fmt.Errorf("%w: core %q", ErrInvalidAddress, cfg.CoreAddress)
	}
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse channel key: %w", err)
	}
	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		if chainID, err = eth.ChainID(ctx); err != nil {
			eth.Close()
			return nil, fmt.Errorf("chain id: %w", err)
		}
	}
	c, err := newClient(eth, common.HexToAddress(cfg.CoreAddress), key, chainID, cfg.RegistryFromBlock, cfg.PollInterval, logger)
	if err != nil {
		eth.Close()
		return nil, err
	}
	c.close = eth.Close
	c.log.With("op", op).Info("connected",
		slog.String("channel", c.Address()),
		slog.String("core", c.core.Hex()),
		slog.String("chain_id", chainID.String()),
	)
	return c, nil
}

func newClient(b backend, core common.Address, key *ecdsa.PrivateKey, chainID *big.Int, fromBlock uint64, poll time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := parseCoreABI()
	if err != nil {
		return nil, fmt.Errorf("parse core abi: %w", err)
	}
	if poll <= 0 {
		poll = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		backend:   b,
		abi:       parsed,
		core:      core,
		contract:  bind.NewBoundContract(core, parsed, b, b, b),
		key:       key,
		from:      ethcrypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
		fromBlock: fromBlock,
		poll:      poll,
		log:       logger,
	}, nil
}

// Address is the channel address transactions are sent from.
func (c *Client) Address() string { return c.from.Hex() }

func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// SendNotification calls sendNotification(recipient, identity) on the core contract.
func (c *Client) SendNotification(ctx context.Context, recipient string, identity []byte) (notify.PendingTx, error) {
	if !common.IsHexAddress(recipient) {
		return nil, fmt.Errorf("%w: recipient %q", ErrInvalidAddress, recipient)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	tx, err := c.contract.Transact(opts, methodSendNotification, common.HexToAddress(recipient), identity)
	if err != nil {
		return nil, err
	}
	return &pendingTx{c: c, tx: tx}, nil
}

// PublicKey returns the most recent key registered by address, nil when none.
func (c *Client) PublicKey(ctx context.Context, address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	ev := c.abi.Events[eventPublicKey]
	owner := common.HexToAddress(address)
	logs, err := c.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(c.fromBlock),
		Addresses: []common.Address{c.core},
		Topics:    [][]common.Hash{{ev.ID}, {common.BytesToHash(owner.Bytes())}},
	})
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", eventPublicKey, err)
	}
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Removed {
			continue
		}
		vals, err := c.abi.Unpack(eventPublicKey, logs[i].Data)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", eventPublicKey, err)
		}
		key, ok := vals[0].([]byte)
		if !ok || len(key) == 0 {
			continue
		}
		return key, nil
	}
	return nil, nil
}

type pendingTx struct {
	c  *Client
	tx *types.Transaction
}

func (p *pendingTx) Hash() string { return p.tx.Hash().Hex() }

// Wait blocks until the transaction is mined and the head is confirmations-1
// blocks past it. A reverted transaction is an error.
func (p *pendingTx) Wait(ctx context.Context, confirmations uint64) error {
	receipt, err := bind.WaitMined(ctx, p.c.backend, p.tx)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", ErrReverted, p.tx.Hash().Hex())
	}
	if confirmations <= 1 {
		return nil
	}
	target := receipt.BlockNumber.Uint64() + confirmations - 1

	ticker := time.NewTicker(p.c.poll)
	defer ticker.Stop()
	for {
		head, err := p.c.backend.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("block number: %w", err)
		}
		if head >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
