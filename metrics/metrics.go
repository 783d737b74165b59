// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/coreasset/components/coreerr"
	"github.com/luxfi/coreasset/instructions"
	"github.com/luxfi/coreasset/utils/wrappers"
)

const (
	InstructionLabel = "instruction"
	KindLabel        = "kind"
)

var (
	_ Metrics = (*metricsImpl)(nil)

	acceptedLabels = []string{InstructionLabel}
	failedLabels   = []string{InstructionLabel, KindLabel}
)

type Metrics interface {
	// Mark that the given instruction was committed.
	MarkAccepted(instructions.Instruction)
	// Mark that the given instruction failed and was rolled back.
	MarkFailed(instructions.Instruction, error)
	// Mark that the ledger failed to commit an otherwise valid instruction.
	IncCommitFailures()
	// Record how long an instruction took to execute, whatever its outcome.
	ObserveExecution(time.Duration)
}

type metricsImpl struct {
	numAccepted    metric.CounterVec
	numFailed      metric.CounterVec
	commitFailures metric.Counter

	// executionCount and executionSum average the execution time.
	executionCount metric.Counter
	executionSum   metric.Gauge
}

func New(registerer metric.Registerer) (Metrics, error) {
	m := &metricsImpl{
		numAccepted: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "instructions_accepted",
				Help: "number of instructions accepted",
			},
			acceptedLabels,
		),
		numFailed: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "instructions_failed",
				Help: "number of instructions rolled back, by error kind",
			},
			failedLabels,
		),
		commitFailures: metric.NewCounter(metric.CounterOpts{
			Name: "commit_failures",
			Help: "number of valid instructions whose accounts could not be written",
		}),
		executionCount: metric.NewCounter(metric.CounterOpts{
			Name: "instruction_execution_count",
			Help: "total # of observations of instruction execution time",
		}),
		executionSum: metric.NewGauge(metric.GaugeOpts{
			Name: "instruction_execution_sum",
			Help: "sum of instruction execution time in nanoseconds",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.numAccepted)),
		registerer.Register(metric.AsCollector(m.numFailed)),
		registerer.Register(metric.AsCollector(m.commitFailures)),
		registerer.Register(metric.AsCollector(m.executionCount)),
		registerer.Register(metric.AsCollector(m.executionSum)),
	)
	return m, errs.Err
}

func (m *metricsImpl) MarkAccepted(ins instructions.Instruction) {
	m.numAccepted.With(metric.Labels{
		InstructionLabel: instructions.Name(ins),
	}).Inc()
}

func (m *metricsImpl) MarkFailed(ins instructions.Instruction, err error) {
	m.numFailed.With(metric.Labels{
		InstructionLabel: instructions.Name(ins),
		KindLabel:        string(coreerr.KindOf(err)),
	}).Inc()
}

func (m *metricsImpl) IncCommitFailures() {
	m.commitFailures.Inc()
}

func (m *metricsImpl) ObserveExecution(d time.Duration) {
	m.executionCount.Inc()
	m.executionSum.Add(float64(d))
}
