// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"time"

	"github.com/luxfi/coreasset/instructions"
)

var Noop Metrics = noopMetrics{}

type noopMetrics struct{}

func (noopMetrics) MarkAccepted(instructions.Instruction) {}

func (noopMetrics) MarkFailed(instructions.Instruction, error) {}

func (noopMetrics) IncCommitFailures() {}

func (noopMetrics) ObserveExecution(time.Duration) {}
