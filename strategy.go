package rollbias

import (
	"errors"
	"fmt"
)

// Mode identifies one of the three sampling strategies. The set is closed:
// dispatch over modes is exhaustive and an unrecognized tag is an error,
// never a silent default.
type Mode string

const (
	// ModeRealLife rolls two independent fair dice.
	ModeRealLife Mode = "real-life"
	// ModeAdaptive corrects short-run streaks toward the true law.
	ModeAdaptive Mode = "adaptive"
	// ModeShuffleBag draws without replacement from an exact multiset.
	ModeShuffleBag Mode = "shuffle-bag"
)

// Configuration errors, fatal at construction or restore time. Parameters
// are validated, never clamped.
var (
	ErrUnknownMode     = errors.New("unknown strategy mode")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Operational precondition errors, per-call. They are distinct from the
// configuration errors above so a host can grey out an undo affordance
// with errors.Is instead of retrying.
var (
	ErrEmptyHistory = errors.New("no rolls to undo")
	ErrBagBoundary  = errors.New("cannot undo across a bag refill")
)

// Strategy is the uniform contract over the three sampling modes. A
// strategy instance owns its roll history exclusively and must only be
// mutated by one caller at a time; hosts that share an instance across
// goroutines have to serialize access themselves.
type Strategy interface {
	// Mode returns the discriminant tag of this strategy.
	Mode() Mode
	// Roll draws the next outcome, mutates internal state and appends to
	// the history.
	Roll() Outcome
	// Undo reverts exactly one roll, or fails with ErrEmptyHistory or
	// ErrBagBoundary without mutating anything.
	Undo() error
	// Rolls returns a copy of the drawn history, oldest first. For the
	// shuffle bag this covers the current bag only.
	Rolls() []Outcome
	// Snapshot captures enough state to reconstruct an operationally
	// identical instance via Restore.
	Snapshot() Snapshot
}

// Snapshot is the serialized form of a strategy, the canonical record
// exchanged with persistence and import/export collaborators. The host is
// responsible for the JSON encoding itself; the core only defines the
// shape and validates it on Restore.
//
// Beta, Eta and Epsilon are pointers because absence means "use the
// default": they are configuration, not derived state. Derived fields
// (EMA errors, sampling distribution, alias tables) are deliberately not
// part of the record — they are caches, rebuilt from the history on
// Restore so reconstruction cannot drift from how the snapshot was made.
type Snapshot struct {
	Mode    Mode      `json:"mode"`
	Rolls   []Outcome `json:"rolls,omitempty"`
	Beta    *float64  `json:"beta,omitempty"`
	Eta     *float64  `json:"eta,omitempty"`
	Epsilon *float64  `json:"epsilon,omitempty"`
	BagSize int       `json:"bagSize,omitempty"`
	Bag     []Outcome `json:"bag,omitempty"`
	BagPos  int       `json:"bagPos,omitempty"`
}

// DefaultBagSize is the bag size New uses for ModeShuffleBag: one exact
// copy of the 36-element true multiset.
const DefaultBagSize = bagModulus

// New creates a fresh strategy of the given mode with default parameters,
// drawing randomness from src.
func New(src Source, mode Mode) (Strategy, error) {
	switch mode {
	case ModeRealLife:
		return NewRealLife(src), nil
	case ModeAdaptive:
		return NewAdaptive(src, DefaultAdaptiveParams())
	case ModeShuffleBag:
		return NewShuffleBag(src, DefaultBagSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Restore reconstructs a strategy from a snapshot. The adaptive strategy
// replays the embedded history through its update rule from an empty
// state; nothing cached inside the snapshot is trusted. Restore fails on a
// missing or unknown mode tag, invalid parameters, out-of-domain outcome
// values, or an inconsistent bag.
func Restore(src Source, snap Snapshot) (Strategy, error) {
	switch snap.Mode {
	case ModeRealLife:
		if err := validateRolls(snap.Rolls); err != nil {
			return nil, err
		}
		s := NewRealLife(src)
		s.rolls = append([]Outcome(nil), snap.Rolls...)
		return s, nil

	case ModeAdaptive:
		params := DefaultAdaptiveParams()
		if snap.Beta != nil {
			params.Beta = *snap.Beta
		}
		if snap.Eta != nil {
			params.Eta = *snap.Eta
		}
		if snap.Epsilon != nil {
			params.Epsilon = *snap.Epsilon
		}
		if err := validateRolls(snap.Rolls); err != nil {
			return nil, err
		}
		a, err := NewAdaptive(src, params)
		if err != nil {
			return nil, err
		}
		a.rolls = append([]Outcome(nil), snap.Rolls...)
		a.replay()
		return a, nil

	case ModeShuffleBag:
		return restoreShuffleBag(src, snap)

	case "":
		return nil, fmt.Errorf("%w: missing mode tag", ErrInvalidSnapshot)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, snap.Mode)
	}
}

func validateRolls(rolls []Outcome) error {
	for i, o := range rolls {
		if !o.Valid() {
			return fmt.Errorf("%w: roll %d at position %d: %v", ErrInvalidSnapshot, o, i, ErrInvalidOutcome)
		}
	}
	return nil
}
