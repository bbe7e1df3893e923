package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// RepoManager holds the badgerhold store shared by all repositories.
type RepoManager struct {
	Store *badgerhold.Store

	pairRepository    domain.PairRepository
	factoryRepository domain.FactoryRepository
	ledgerStore       *LedgerStore
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty dir makes the
// store live in memory only.
func NewRepoManager(baseDbDir string, logger badger.Logger) (*RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	r := &RepoManager{Store: store}
	r.pairRepository = NewPairRepositoryImpl(r)
	r.factoryRepository = NewFactoryRepositoryImpl(r)
	r.ledgerStore = NewLedgerStore(r)
	return r, nil
}

func (r *RepoManager) PairRepository() domain.PairRepository {
	return r.pairRepository
}

func (r *RepoManager) FactoryRepository() domain.FactoryRepository {
	return r.factoryRepository
}

func (r *RepoManager) LedgerStore() *LedgerStore {
	return r.ledgerStore
}

func (r *RepoManager) Close() {
	r.Store.Close()
}

func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return uow.Run(ctx, r, readOnly, handler)
}

// Begin implements uow.Transactional.
func (r *RepoManager) Begin(readOnly bool) (uow.Tx, error) {
	return &tx{r.Store.Badger().NewTransaction(!readOnly)}, nil
}

type tx struct {
	txn *badger.Txn
}

// Commit commits the badger transaction and always discards it, since a
// commit without pending writes returns before releasing the read mark.
func (t *tx) Commit() error {
	defer t.txn.Discard()
	return t.txn.Commit()
}

func (t *tx) Rollback() error {
	t.txn.Discard()
	return nil
}

// txFromContext returns the badger transaction of the ongoing unit of work,
// if any.
func (r *RepoManager) txFromContext(ctx context.Context) *badger.Txn {
	u, ok := uow.FromContext(ctx, r)
	if !ok {
		return nil
	}
	return u.Tx().(*tx).txn
}

func (r *RepoManager) get(ctx context.Context, key, result interface{}) error {
	if txn := r.txFromContext(ctx); txn != nil {
		return r.Store.TxGet(txn, key, result)
	}
	return r.Store.Get(key, result)
}

func (r *RepoManager) upsert(ctx context.Context, key, data interface{}) error {
	if err := uow.Writable(ctx, r); err != nil {
		return err
	}
	if txn := r.txFromContext(ctx); txn != nil {
		return r.Store.TxUpsert(txn, key, data)
	}
	return r.Store.Upsert(key, data)
}

func (r *RepoManager) insert(ctx context.Context, key, data interface{}) error {
	if err := uow.Writable(ctx, r); err != nil {
		return err
	}
	if txn := r.txFromContext(ctx); txn != nil {
		return r.Store.TxInsert(txn, key, data)
	}
	return r.Store.Insert(key, data)
}

func (r *RepoManager) delete(ctx context.Context, key, dataType interface{}) error {
	if err := uow.Writable(ctx, r); err != nil {
		return err
	}
	var err error
	if txn := r.txFromContext(ctx); txn != nil {
		err = r.Store.TxDelete(txn, key, dataType)
	} else {
		err = r.Store.Delete(key, dataType)
	}
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return err
}

func (r *RepoManager) find(
	ctx context.Context, result interface{}, query *badgerhold.Query,
) error {
	if txn := r.txFromContext(ctx); txn != nil {
		return r.Store.TxFind(txn, result, query)
	}
	return r.Store.Find(result, query)
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if len(dbDir) <= 0 {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dbDir)
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

var _ ports.RepoManager = (*RepoManager)(nil)
