// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package processor executes instructions against the ledger. Every
// instruction runs in its own ledger transaction: it either commits every
// account it touched or none of them.
package processor

import (
	"fmt"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/config"
	"github.com/luxfi/coreasset/instructions"
	"github.com/luxfi/coreasset/ledger"
	"github.com/luxfi/coreasset/metrics"
)

var (
	ErrMissingSignature = fmt.Errorf("%w: missing signature", coreerr.ErrAuthority)
	errNilInstruction   = fmt.Errorf("%w: nil instruction", coreerr.ErrInvalidState)
)

type Processor struct {
	backend *Backend
	ledger  *ledger.Ledger
	metrics metrics.Metrics
}

func New(cfg *config.Config, l *ledger.Ledger, m metrics.Metrics, logger log.Logger) *Processor {
	return &Processor{
		backend: &Backend{
			Config: cfg,
			Log:    logger,
		},
		ledger:  l,
		metrics: m,
	}
}

// Execute runs [ins]. [signers] are the addresses whose signatures were
// verified by the caller.
func (p *Processor) Execute(ins instructions.Instruction, signers set.Set[ids.ShortID]) error {
	name := instructions.Name(ins)
	tx := p.ledger.NewTx()
	start := time.Now()
	err := p.execute(tx, ins, signers)
	p.metrics.ObserveExecution(time.Since(start))
	if err != nil {
		tx.Abort()
		p.metrics.MarkFailed(ins, err)
		p.backend.Log.Debug("instruction failed",
			log.String("instruction", name),
			log.String("kind", string(coreerr.KindOf(err))),
			log.Err(err),
		)
		return err
	}
	if err := tx.Commit(); err != nil {
		p.metrics.IncCommitFailures()
		p.backend.Log.Error("failed to commit instruction",
			log.String("instruction", name),
			log.Err(err),
		)
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}

	p.metrics.MarkAccepted(ins)
	p.backend.Log.Debug("instruction accepted",
		log.String("instruction", name),
	)
	return nil
}

func (p *Processor) execute(tx *ledger.Tx, ins instructions.Instruction, signers set.Set[ids.ShortID]) error {
	if ins == nil {
		return errNilInstruction
	}
	for _, signer := range ins.Signers() {
		if !signers.Contains(signer) {
			return fmt.Errorf("%w: %s", ErrMissingSignature, signer)
		}
	}
	return ins.Visit(&Executor{
		Backend: p.backend,
		Tx:      tx,
	})
}
