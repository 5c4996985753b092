package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/roboricindustries/raycon-notify/pkg/hybrid"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/common"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
)

const (
	// DefaultConfirmations is the depth waited for when none is configured.
	DefaultConfirmations = 1

	publishTimeout = 5 * time.Second
)

// EventPublisher receives one outcome event per finished attempt.
type EventPublisher interface {
	Publish(ctx context.Context, key string, msg common.Envelope) error
}

// Config tunes a Dispatcher.
type Config struct {
	// Confirmations to wait for after inclusion; 0 means DefaultConfirmations.
	Confirmations uint64
	// Timeout bounds a whole attempt; 0 waits indefinitely.
	Timeout time.Duration
	// SecretLength of the per-notification symmetric secret.
	SecretLength int
	// LaxAddresses accepts recipients that are not 0x-prefixed 20-byte hex.
	// By default they are rejected before anything is stored.
	LaxAddresses bool
	// Producer is stamped on outcome events.
	Producer string
}

// Deps are the collaborators of a Dispatcher. Events, Metrics and Logger are optional.
type Deps struct {
	Storage Storage
	Ledger  Ledger
	Keys    *KeyResolver
	Events  EventPublisher
	Metrics *Metrics
	Logger  *slog.Logger
}

// Result describes an attempt. Fields are filled as far as the attempt got.
type Result struct {
	AttemptID string
	Mode      ModeCode
	Recipient string
	Pointer   string
	Identity  string
	TxHash    string
}

// Dispatcher runs dispatch attempts: validate, seal (secret only), store, submit,
// confirm. Every attempt writes to storage and submits a transaction at most once.
type Dispatcher struct {
	storage   Storage
	ledger    Ledger
	keys      *KeyResolver
	events    EventPublisher
	metrics   *Metrics
	log       *slog.Logger
	validator *Validator
	engine    hybrid.Engine

	confirmations uint64
	timeout       time.Duration
	producer      string
}

func NewDispatcher(cfg Config, deps Deps) (*Dispatcher, error) {
	if deps.Storage == nil {
		return nil, errors.New("storage is required")
	}
	if deps.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if deps.Keys == nil {
		return nil, errors.New("key resolver is required")
	}
	if cfg.SecretLength != 0 && cfg.SecretLength < hybrid.MinSecretLength {
		return nil, fmt.Errorf("secret length %d below minimum %d", cfg.SecretLength, hybrid.MinSecretLength)
	}
	confirmations := cfg.Confirmations
	if confirmations == 0 {
		confirmations = DefaultConfirmations
	}
	return &Dispatcher{
		storage:       deps.Storage,
		ledger:        deps.Ledger,
		keys:          deps.Keys,
		events:        deps.Events,
		metrics:       deps.Metrics,
		log:           orDiscard(deps.Logger),
		validator:     NewValidator(!cfg.LaxAddresses),
		engine:        hybrid.Engine{SecretLength: cfg.SecretLength},
		confirmations: confirmations,
		timeout:       cfg.Timeout,
		producer:      cfg.Producer,
	}, nil
}

// Dispatch runs one attempt for s. It returns ErrAttemptInProgress, leaving the
// session untouched, when s is already processing. Any other error is a
// *DispatchError and s ends in StateFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session) (Result, error) {
	return d.dispatch(ctx, s, "")
}

func (d *Dispatcher) dispatch(ctx context.Context, s *Session, correlationID string) (Result, error) {
	mode, draft, err := s.begin()
	if err != nil {
		return Result{}, err
	}

	res := Result{AttemptID: uuid.NewString()}
	if correlationID == "" {
		correlationID = res.AttemptID
	}
	if mode != nil {
		res.Mode = mode.Code()
		res.Recipient = mode.Recipient()
	}
	log := d.log.With(
		slog.String("attempt_id", res.AttemptID),
		slog.String("mode", res.Mode.Name()),
	)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	started := time.Now()
	derr := d.run(ctx, s, mode, draft, &res, log)
	took := time.Since(started)

	if derr != nil {
		s.fail(derr)
		d.metrics.observe(res.Mode, derr.Kind.String(), took)
		log.Warn("dispatch failed",
			slog.String("kind", derr.Kind.String()),
			slog.String("info", derr.Info),
			slog.Any("error", derr.Err),
			slog.String("pointer", res.Pointer),
		)
		d.publish(ctx, notifications.FailedMeta, correlationID, notifications.FailedV1{
			AttemptID: res.AttemptID,
			Mode:      res.Mode.String(),
			Recipient: res.Recipient,
			Kind:      derr.Kind.String(),
			Info:      derr.Info,
			Pointer:   res.Pointer,
			FailedAt:  time.Now().UTC(),
		})
		return res, derr
	}

	recipientCount := 0
	if sub, ok := mode.(Subset); ok {
		recipientCount = len(sub.Recipients)
	}
	s.complete()
	d.metrics.observe(res.Mode, outcomeCompleted, took)
	log.Info("notification sent",
		slog.String("identity", res.Identity),
		slog.String("tx", res.TxHash),
		slog.Duration("took", took),
	)
	d.publish(ctx, notifications.DispatchedMeta, correlationID, notifications.DispatchedV1{
		AttemptID:      res.AttemptID,
		Mode:           res.Mode.String(),
		Recipient:      res.Recipient,
		Identity:       res.Identity,
		Pointer:        res.Pointer,
		TxHash:         res.TxHash,
		RecipientCount: recipientCount,
		CompletedAt:    time.Now().UTC(),
	})
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, s *Session, mode Mode, draft Draft, res *Result, log *slog.Logger) *DispatchError {
	if err := d.validator.Validate(draft, mode); err != nil {
		var ve *ValidationError
		info := err.Error()
		if errors.As(err, &ve) {
			info = ve.Info
		}
		return &DispatchError{Kind: KindValidation, Info: info, Err: err}
	}

	var payload notifications.Payload
	switch m := mode.(type) {
	case Secret:
		s.progress(InfoResolvingKey)
		raw, found, err := d.keys.Resolve(ctx, m.To)
		if err != nil {
			return stageError(ctx, KindChain, "Unable to look up the recipient's public key", err)
		}
		if !found {
			return &DispatchError{
				Kind: KindKeyResolution,
				Info: "Public Key Registration is required for encryption!",
			}
		}
		s.progress(InfoEncrypting)
		pub, err := hybrid.ParsePublicKey(raw)
		if err != nil {
			return &DispatchError{Kind: KindEncryption, Info: "Unable to encrypt for this user", Err: err}
		}
		env, err := d.engine.Seal(pub, fieldsOf(draft))
		if err != nil {
			return &DispatchError{Kind: KindEncryption, Info: "Unable to encrypt for this user", Err: err}
		}
		payload = SecretPayload(m, env)
	default:
		p, err := PlainPayload(mode, draft)
		if err != nil {
			return &DispatchError{Kind: KindValidation, Info: "Incorrect Payload", Err: err}
		}
		payload = p
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &DispatchError{Kind: KindStorage, Info: "Incorrect Payload", Err: err}
	}

	s.progress(InfoUploading)
	log.Debug("uploading payload", slog.Int("bytes", len(body)))
	pointer, err := d.storage.Put(ctx, body)
	if err != nil {
		return stageError(ctx, KindStorage, "Storage Upload Error", err)
	}
	if pointer == "" {
		return &DispatchError{Kind: KindStorage, Info: "Storage Upload Error", Err: errors.New("empty content pointer")}
	}
	res.Pointer = pointer
	res.Identity = FormatIdentity(res.Mode, pointer)
	log.Debug("payload stored", slog.String("pointer", pointer))

	s.progress(InfoSending)
	tx, err := d.ledger.SendNotification(ctx, res.Recipient, []byte(res.Identity))
	if err != nil {
		return stageError(ctx, KindChain, "Transaction Failed: "+err.Error(), err)
	}
	res.TxHash = tx.Hash()
	s.progress(InfoSent)
	log.Debug("transaction sent", slog.String("tx", res.TxHash))

	if err := tx.Wait(ctx, d.confirmations); err != nil {
		return stageError(ctx, KindChain, "Transaction Failed: "+err.Error(), err)
	}
	return nil
}

// stageError reports a failed external call, as cancelled when ctx is done.
func stageError(ctx context.Context, kind Kind, info string, err error) *DispatchError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &DispatchError{Kind: KindCancelled, Info: "Dispatch cancelled", Err: errors.Join(ctxErr, err)}
	}
	return &DispatchError{Kind: kind, Info: info, Err: err}
}

func (d *Dispatcher) publish(ctx context.Context, em common.EventMeta, correlationID string, data any) {
	if d.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	env := common.NewEnvelope(em, d.producer, correlationID, data)
	if err := d.events.Publish(ctx, em.RoutingKey, env); err != nil {
		d.log.Error("publish outcome event failed",
			slog.String("type", em.EventType),
			slog.Any("error", err),
		)
	}
}
