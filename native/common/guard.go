package common

import "errors"

var ErrModulePaused = errors.New("module paused")

// PauseView exposes the operator-controlled module switches.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects calls into a module that the operator has switched off. It is
// independent of the per-contract Pausable flag.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// PausedModules is a static PauseView.
type PausedModules map[string]bool

func (p PausedModules) IsPaused(module string) bool { return p[module] }
