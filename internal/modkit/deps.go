// Package modkit provides module wiring and core deps
package modkit

import (
	"bookmarkd/internal/platform/config"
	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	Data *store.Dir
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check the data dir
func (d Deps) ZeroOK() bool { return true }
