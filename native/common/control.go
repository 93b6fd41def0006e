package common

import (
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var (
	ErrPaused    = errors.New("Pausable: paused")
	ErrNotPaused = errors.New("Pausable: not paused")
	ErrNotOwner  = errors.New("Ownable: caller is not the owner")
	ErrZeroOwner = errors.New("Ownable: new owner is the zero address")
)

// Control carries the owner and pause flag every deployed contract record
// embeds.
type Control struct {
	Owner  ethcommon.Address
	Paused bool
}

func (c *Control) RequireOwner(caller ethcommon.Address) error {
	if caller != c.Owner {
		return ErrNotOwner
	}
	return nil
}

func (c *Control) WhenNotPaused() error {
	if c.Paused {
		return ErrPaused
	}
	return nil
}

func (c *Control) WhenPaused() error {
	if !c.Paused {
		return ErrNotPaused
	}
	return nil
}

// Pause flips the flag on. Owner only; pausing twice fails.
func (c *Control) Pause(caller ethcommon.Address) error {
	if err := c.RequireOwner(caller); err != nil {
		return err
	}
	if err := c.WhenNotPaused(); err != nil {
		return err
	}
	c.Paused = true
	return nil
}

func (c *Control) Unpause(caller ethcommon.Address) error {
	if err := c.RequireOwner(caller); err != nil {
		return err
	}
	if err := c.WhenPaused(); err != nil {
		return err
	}
	c.Paused = false
	return nil
}

func (c *Control) TransferOwnership(caller, newOwner ethcommon.Address) error {
	if err := c.RequireOwner(caller); err != nil {
		return err
	}
	if newOwner == (ethcommon.Address{}) {
		return ErrZeroOwner
	}
	c.Owner = newOwner
	return nil
}
