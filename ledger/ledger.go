// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is the host side of account storage. Each instruction runs
// in a Tx that stages account buffers in memory and writes them through a
// version database only when the instruction succeeds.
package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/config"
	"github.com/luxfi/coreasset/utils/compression"
)

var (
	accountPrefix = []byte("account")
	metaPrefix    = []byte("meta")

	ErrAccountNotFound = fmt.Errorf("%w: account", coreerr.ErrNotFound)
	errTxDone          = errors.New("transaction already finished")
)

// Ledger stores account buffers and their metadata.
type Ledger struct {
	log log.Logger

	baseDB    *versiondb.Database
	accountDB database.Database
	metaDB    database.Database

	// committed account bytes; never handed out without copying
	accountCache cache.Cacher[ids.ShortID, []byte]
	// applied to account bytes on their way to and from accountDB
	compressor compression.Compressor

	maxAccountSize int
	rentPerByte    uint64
}

func New(db database.Database, cfg config.Config, logger log.Logger) (*Ledger, error) {
	compressionType, err := cfg.CompressionType()
	if err != nil {
		return nil, err
	}
	compressor, err := compression.New(compressionType, int64(cfg.MaxAccountSize))
	if err != nil {
		return nil, err
	}

	baseDB := versiondb.New(db)
	return &Ledger{
		log:            logger,
		baseDB:         baseDB,
		accountDB:      prefixdb.New(accountPrefix, baseDB),
		metaDB:         prefixdb.New(metaPrefix, baseDB),
		accountCache:   lru.NewCache[ids.ShortID, []byte](cfg.AccountCacheSize),
		compressor:     compressor,
		maxAccountSize: cfg.MaxAccountSize,
		rentPerByte:    cfg.RentPerByte,
	}, nil
}

// Get returns a copy of the committed bytes of [addr].
func (l *Ledger) Get(addr ids.ShortID) ([]byte, error) {
	b, err := l.get(addr)
	if err != nil {
		return nil, err
	}
	return slices.Clone(b), nil
}

func (l *Ledger) get(addr ids.ShortID) ([]byte, error) {
	if b, ok := l.accountCache.Get(addr); ok {
		return b, nil
	}
	compressed, err := l.accountDB.Get(addr[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	b, err := l.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress account %s: %w", addr, err)
	}
	l.accountCache.Put(addr, b)
	return b, nil
}

// GetMeta returns the committed metadata of [addr].
func (l *Ledger) GetMeta(addr ids.ShortID) (Meta, error) {
	var meta Meta
	b, err := l.metaDB.Get(addr[:])
	if errors.Is(err, database.ErrNotFound) {
		return meta, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return meta, err
	}
	if _, err := Codec.Unmarshal(b, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

// NewTx starts staging changes for one instruction.
func (l *Ledger) NewTx() *Tx {
	return &Tx{
		ledger:   l,
		accounts: make(map[ids.ShortID]*Account),
	}
}

// Tx stages account changes. Nothing is written until Commit.
type Tx struct {
	ledger   *Ledger
	accounts map[ids.ShortID]*Account
	order    []ids.ShortID
	done     bool
}

// Account returns the staged account at [addr], loading it on first use. A
// missing account is returned empty.
func (tx *Tx) Account(addr ids.ShortID) (*Account, error) {
	if tx.done {
		return nil, errTxDone
	}
	if acct, ok := tx.accounts[addr]; ok {
		return acct, nil
	}

	acct := &Account{
		Address:     addr,
		maxSize:     tx.ledger.maxAccountSize,
		rentPerByte: tx.ledger.rentPerByte,
	}
	b, err := tx.ledger.get(addr)
	switch {
	case err == nil:
		acct.original = b
		acct.data = slices.Clone(b)
		if acct.Meta, err = tx.ledger.GetMeta(addr); err != nil {
			return nil, err
		}
		acct.originalMeta = acct.Meta
	case !errors.Is(err, ErrAccountNotFound):
		return nil, err
	}

	tx.accounts[addr] = acct
	tx.order = append(tx.order, addr)
	return acct, nil
}

// Commit writes every modified account atomically.
func (tx *Tx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true

	l := tx.ledger
	defer l.baseDB.Abort()

	var written []*Account
	for _, addr := range tx.order {
		acct := tx.accounts[addr]
		if !acct.modified() {
			continue
		}
		if err := l.write(acct); err != nil {
			return err
		}
		written = append(written, acct)
	}
	if err := l.baseDB.Commit(); err != nil {
		l.log.Debug("failed to commit accounts",
			log.Int("accounts", len(written)),
			log.Err(err),
		)
		return err
	}

	for _, acct := range written {
		if acct.Exists() {
			l.accountCache.Put(acct.Address, slices.Clone(acct.data))
		} else {
			l.accountCache.Evict(acct.Address)
		}
	}
	return nil
}

// Abort drops every staged change.
func (tx *Tx) Abort() {
	tx.done = true
	clear(tx.accounts)
	tx.order = nil
}

func (l *Ledger) write(acct *Account) error {
	key := acct.Address[:]
	if !acct.Exists() {
		// freed accounts return their deposit and disappear
		return errors.Join(
			l.accountDB.Delete(key),
			l.metaDB.Delete(key),
		)
	}
	metaBytes, err := Codec.Marshal(CodecVersion, &acct.Meta)
	if err != nil {
		return err
	}
	compressed, err := l.compressor.Compress(acct.data)
	if err != nil {
		return err
	}
	return errors.Join(
		l.accountDB.Put(key, compressed),
		l.metaDB.Put(key, metaBytes),
	)
}
