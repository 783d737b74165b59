// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"github.com/luxfi/log"

	"github.com/luxfi/coreasset/config"
)

type Backend struct {
	Config *config.Config
	Log    log.Logger
}
