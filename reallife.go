package rollbias

// RealLife is the plain strategy: every roll draws two independent fair
// six-sided dice and records their sum. Its output distribution is the true
// two-dice law by construction, so it bypasses the alias machinery
// entirely.
type RealLife struct {
	src   Source
	rolls []Outcome
}

// NewRealLife creates a real-life strategy drawing from src.
func NewRealLife(src Source) *RealLife {
	return &RealLife{src: src}
}

// Mode returns ModeRealLife.
func (s *RealLife) Mode() Mode {
	return ModeRealLife
}

// Roll draws two dice and appends their sum to the history.
func (s *RealLife) Roll() Outcome {
	sum := Outcome(s.src.IntN(6) + s.src.IntN(6) + 2)
	s.rolls = append(s.rolls, sum)
	return sum
}

// Undo removes the last roll. It fails with ErrEmptyHistory when there is
// nothing to remove.
func (s *RealLife) Undo() error {
	if len(s.rolls) == 0 {
		return ErrEmptyHistory
	}
	s.rolls = s.rolls[:len(s.rolls)-1]
	return nil
}

// Rolls returns a copy of the roll history, oldest first.
func (s *RealLife) Rolls() []Outcome {
	return append([]Outcome(nil), s.rolls...)
}

// Snapshot captures the mode tag and the roll history; that is the entire
// state of this strategy.
func (s *RealLife) Snapshot() Snapshot {
	return Snapshot{Mode: ModeRealLife, Rolls: s.Rolls()}
}
