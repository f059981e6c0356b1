package arena

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/blockarena/arena/verify"
)

// IsValid walks the buffer and reports whether every header matches its
// footer and the chain ends exactly at the buffer end. O(block count).
//
// A false result records the corruption, so later mutations fail with it.
func (a *Arena) IsValid() bool {
	return a.Validate() == nil
}

// Validate is IsValid with the first violation returned as an *InvariantError.
func (a *Arena) Validate() error {
	if a.closed {
		return ErrClosed
	}
	if err := verify.Blocks(a.buf); err != nil {
		off := -1
		var verr *verify.ValidationError
		if errors.As(err, &verr) {
			off = verr.Offset
		}
		return a.fail("validate", off, ErrCorrupt, err)
	}
	return nil
}

// postCheck runs the validator after a mutation when CheckInvariants is set.
func (a *Arena) postCheck(op string) error {
	if !a.opts.CheckInvariants {
		return nil
	}
	if err := a.Validate(); err != nil {
		return errors.WithMessagef(err, "after %s", op)
	}
	return nil
}

// fail records a corruption and returns it. The first corruption poisons
// the arena: every later mutation returns it instead of touching the buffer.
func (a *Arena) fail(op string, off int, kind, cause error) error {
	ie := &InvariantError{Op: op, Offset: off, Kind: kind, Err: cause}
	if a.fault == nil {
		a.fault = ie
	}
	a.log.WithFields(logrus.Fields{
		"op":     op,
		"offset": off,
	}).WithError(ie).Error("arena invariant violated")
	return ie
}

// reject reports a caller contract violation (foreign or double-freed ref).
// The buffer was not touched, so the arena stays usable.
func (a *Arena) reject(op string, off int, kind, cause error) error {
	ie := &InvariantError{Op: op, Offset: off, Kind: kind, Err: cause}
	a.log.WithFields(logrus.Fields{
		"op":     op,
		"offset": off,
	}).WithError(ie).Error("arena reference rejected")
	return ie
}
