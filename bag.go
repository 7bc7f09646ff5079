package rollbias

import (
	"errors"
	"fmt"
)

// ErrInvalidBagSize reports a bag size that is not a positive multiple of
// 36, the total of the true multiplicities.
var ErrInvalidBagSize = errors.New("bag size must be a positive multiple of 36")

// ShuffleBag draws outcomes without replacement from a finite bag holding
// a whole number of copies of the true two-dice multiset. Within one full
// bag traversal the drawn frequencies therefore equal the true law exactly
// — there is no sampling variance at the bag level, trading the "feel" of
// independent rolls for a hard cap on deviation.
type ShuffleBag struct {
	src  Source
	size int
	bag  []Outcome
	pos  int // bag[:pos] has been drawn
}

// NewShuffleBag creates a shuffle-bag strategy. bagSize must be a positive
// multiple of 36 so the bag can hold whole copies of the true
// multiplicities; anything else fails with ErrInvalidBagSize.
func NewShuffleBag(src Source, bagSize int) (*ShuffleBag, error) {
	if bagSize <= 0 || bagSize%bagModulus != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBagSize, bagSize)
	}
	b := &ShuffleBag{src: src, size: bagSize}
	b.refill()
	return b, nil
}

// Mode returns ModeShuffleBag.
func (b *ShuffleBag) Mode() Mode {
	return ModeShuffleBag
}

// BagSize returns the configured bag size.
func (b *ShuffleBag) BagSize() int {
	return b.size
}

// Remaining returns how many outcomes are left before the next refill.
func (b *ShuffleBag) Remaining() int {
	return len(b.bag) - b.pos
}

// refill rebuilds the bag with size/36 copies of each outcome's true
// multiplicity and shuffles it in place with Fisher-Yates. The previous
// bag is discarded, so undo can never reach back past this point.
func (b *ShuffleBag) refill() {
	scale := b.size / bagModulus
	bag := make([]Outcome, 0, b.size)
	for i, c := range trueCounts {
		for range c * scale {
			bag = append(bag, outcomeAt(i))
		}
	}
	for i := len(bag) - 1; i >= 1; i-- {
		j := b.src.IntN(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	b.bag = bag
	b.pos = 0
}

// Roll returns the outcome at the current bag position and advances it,
// refilling and reshuffling first if the bag is exhausted.
func (b *ShuffleBag) Roll() Outcome {
	if b.pos == len(b.bag) {
		b.refill()
	}
	o := b.bag[b.pos]
	b.pos++
	return o
}

// Undo steps the bag position back by one, exposing the previously drawn
// outcome again: the next Roll re-returns it. At position 0 there is
// nothing left of the current bag to step back over (any earlier bag was
// discarded on refill), so Undo fails with ErrBagBoundary.
func (b *ShuffleBag) Undo() error {
	if b.pos == 0 {
		return ErrBagBoundary
	}
	b.pos--
	return nil
}

// Rolls returns the drawn prefix of the current bag, oldest first. Rolls
// from before the last refill are gone with their bag.
func (b *ShuffleBag) Rolls() []Outcome {
	return append([]Outcome(nil), b.bag[:b.pos]...)
}

// Snapshot persists the explicit bag contents and the draw position. The
// bag is serialized rather than re-derived on Restore because the exact
// remaining permutation matters: a freshly shuffled bag would be a
// different instance operationally.
func (b *ShuffleBag) Snapshot() Snapshot {
	return Snapshot{
		Mode:    ModeShuffleBag,
		BagSize: b.size,
		Bag:     append([]Outcome(nil), b.bag...),
		BagPos:  b.pos,
	}
}

// restoreShuffleBag validates and reconstructs a shuffle bag from a
// snapshot: size a positive multiple of 36, bag length equal to the size,
// position within bounds, every entry in domain, and the bag's multiset
// composition exactly scale copies of the true multiplicities.
func restoreShuffleBag(src Source, snap Snapshot) (*ShuffleBag, error) {
	if snap.BagSize <= 0 || snap.BagSize%bagModulus != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBagSize, snap.BagSize)
	}
	if len(snap.Bag) != snap.BagSize {
		return nil, fmt.Errorf("%w: bag holds %d outcomes, want %d", ErrInvalidSnapshot, len(snap.Bag), snap.BagSize)
	}
	if snap.BagPos < 0 || snap.BagPos > snap.BagSize {
		return nil, fmt.Errorf("%w: bag position %d out of range [0,%d]", ErrInvalidSnapshot, snap.BagPos, snap.BagSize)
	}
	scale := snap.BagSize / bagModulus
	var counts [NumOutcomes]int
	for i, o := range snap.Bag {
		if !o.Valid() {
			return nil, fmt.Errorf("%w: bag entry %d at position %d: %v", ErrInvalidSnapshot, o, i, ErrInvalidOutcome)
		}
		counts[o.index()]++
	}
	for i, c := range counts {
		if want := trueCounts[i] * scale; c != want {
			return nil, fmt.Errorf("%w: outcome %d appears %d times, want %d", ErrInvalidSnapshot, outcomeAt(i), c, want)
		}
	}
	return &ShuffleBag{
		src:  src,
		size: snap.BagSize,
		bag:  append([]Outcome(nil), snap.Bag...),
		pos:  snap.BagPos,
	}, nil
}
