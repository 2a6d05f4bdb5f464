package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Handler executes a single contract operation.
type Handler func(ctx custody.Context, db custody.KVStore) error

// Tx describes a single contract call.
type Tx struct {
	// Contract is the name the contract was deployed under.
	Contract string
	// Operation names the call for logs and metrics.
	Operation string
	// Payload is the signed content of the call.
	Payload []byte
	// Signatures of Payload. Verified signers are authenticated through
	// sigs.Authenticate.
	Signatures []*sigs.StdSignature
}

// Env executes custody contracts against a versioned store.
type Env struct {
	mu sync.Mutex

	store   custody.CommitKVStore
	pending custody.KVCacheWrap

	chainID   string
	blockTime time.Time
	logger    log.Logger
	metrics   *Metrics

	deployments orm.ModelBucket
	txs         orm.Sequence
	contracts   map[string]custody.Versioned
}

// OpenStore returns the store described by the configuration. The state is
// kept in memory when no data directory is configured.
func OpenStore(conf Config) (*iavl.CommitStore, error) {
	if conf.DataDir == "" {
		return iavl.NewMemCommitStore(), nil
	}
	return iavl.NewCommitStore(conf.DataDir, "custody")
}

// NewEnv loads the latest version of store and returns an environment
// executing on top of it. Metrics can be nil.
func NewEnv(conf Config, store custody.CommitKVStore, logger log.Logger, metrics *Metrics) (*Env, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Env{
		store:       store,
		pending:     store.CacheWrap(),
		chainID:     conf.ChainID,
		logger:      logger.With("module", "custody"),
		metrics:     metrics,
		deployments: newDeploymentBucket(),
		txs:         orm.NewSequence("app", "tx"),
		contracts:   make(map[string]custody.Versioned),
	}, nil
}

// InitChain loads the genesis into the pending state. Initializers run in
// order and the first failure discards all of them.
func (e *Env) InitChain(opts custody.Options, inits ...custody.Initializer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := e.context()
	return custody.Atomic(e.pending, func(db custody.KVStore) error {
		return ChainInitializers(inits...).FromGenesis(ctx, opts, db)
	})
}

// SetBlockTime declares the ambient time of the following transactions.
func (e *Env) SetBlockTime(t time.Time) {
	e.mu.Lock()
	e.blockTime = t
	e.mu.Unlock()
}

// Deploy activates contract under name. Activation is refused with
// ErrIncompatibleVersion if the contract does not provide the required
// interface version.
//
// A name already recorded in the store can only be attached again with the
// versions it was deployed with.
func (e *Env) Deploy(name string, contract custody.Versioned, required custody.Version) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return errors.Wrap(errors.ErrInvalidInput, "contract name required")
	}
	if _, ok := e.contracts[name]; ok {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "contract %q", name)
	}
	if err := checkCompatible(contract, required); err != nil {
		e.logger.Error("deployment refused", "contract", name, "err", err)
		return err
	}
	d := Deployment{
		InterfaceVersion: contract.GetInterfaceVersion().Uint32(),
		Version:          contract.GetVersion(),
		Required:         required.Uint32(),
	}

	var stored Deployment
	switch err := e.deployments.One(e.pending, []byte(name), &stored); {
	case err == nil:
		if stored != d {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "contract %q deployed with interface %s, version %s",
				name, custody.UnpackVersion(stored.InterfaceVersion), custody.UnpackVersion(stored.Version))
		}
		e.contracts[name] = contract
		e.logger.Info("contract attached", "contract", name)
		return nil
	case !errors.ErrNotFound.Is(err):
		return errors.Wrap(err, "load deployment")
	}

	err := custody.Atomic(e.pending, func(db custody.KVStore) error {
		return e.deployments.Put(db, []byte(name), &d)
	})
	if err != nil {
		return errors.Wrap(err, "save deployment")
	}
	e.contracts[name] = contract
	e.logger.Info("contract deployed",
		"contract", name,
		"interface", contract.GetInterfaceVersion().String(),
		"version", custody.UnpackVersion(d.Version).String())
	return nil
}

// Deployment returns the deployment record of given contract.
func (e *Env) Deployment(name string) (*Deployment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var d Deployment
	if err := e.deployments.One(e.pending, []byte(name), &d); err != nil {
		return nil, errors.Wrapf(err, "contract %q", name)
	}
	return &d, nil
}

// Exec runs h as a transaction. All changes done by h are discarded when
// it fails or panics.
func (e *Env) Exec(tx Tx, h Handler) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	ctx := custody.WithLogInfo(e.context(), "contract", tx.Contract, "operation", tx.Operation)
	defer func() {
		logDuration(ctx, start, err)
		e.metrics.Observe(tx.Contract, tx.Operation, err, time.Since(start))
	}()
	defer errors.Recover(&err)

	if _, ok := e.contracts[tx.Contract]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "contract %q not deployed", tx.Contract)
	}
	if e.blockTime.IsZero() {
		return errors.Wrap(errors.ErrHuman, "block time not set")
	}

	return custody.Atomic(e.pending, func(db custody.KVStore) error {
		signed, err := sigs.Authorize(ctx, db, tx.Payload, tx.Signatures)
		if err != nil {
			return err
		}
		e.txs.NextInt(db)
		return h(signed, db)
	})
}

// Query runs fn against the current state, including changes not yet
// committed.
func (e *Env) Query(fn func(db custody.ReadOnlyKVStore)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.pending)
}

// TxCount returns the number of successfully executed transactions.
func (e *Env) TxCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.txs.Latest(e.pending)
}

// Commit persists all pending changes as a new version.
func (e *Env) Commit() (custody.CommitID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending.Write()
	id, err := e.store.Commit()
	if err != nil {
		return id, err
	}
	e.pending = e.store.CacheWrap()
	e.logger.Info("commit", "version", id.Version, "txs", e.txs.Latest(e.pending))
	return id, nil
}

func (e *Env) context() custody.Context {
	ctx := custody.WithChainID(context.Background(), e.chainID)
	ctx = custody.WithLogger(ctx, e.logger)
	if !e.blockTime.IsZero() {
		ctx = custody.WithBlockTime(ctx, e.blockTime)
	}
	return ctx
}

// logDuration writes information about the time and result to the logger.
// Failures are logged as errors, success as info.
func logDuration(ctx custody.Context, start time.Time, err error) {
	delta := time.Since(start)
	logger := custody.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if err != nil {
		logger.Error("tx failed", "err", err, "code", errors.Code(err))
		return
	}
	logger.Info("tx executed")
}
