package game

const (
	baseScore       = 1000
	hintCost        = 40
	attemptCost     = 5
	optionalBonus   = 50
	completionBonus = 200

	// Nth hint in a room costs hintPenaltyStep*N seconds unless a free-hint
	// credit absorbs it.
	hintPenaltyStep = 30
)

// Breakdown is the score report, provisional or final. The same formula
// backs both.
type Breakdown struct {
	Score        int
	TimeSec      int
	PenaltySec   int
	HintsUsed    int
	Attempts     int
	OptionalDone int
}

// ScoreOf computes the current breakdown for a session at the given epoch
// second. Pure; deterministic for a fixed now.
func ScoreOf(s *Session, now int64) Breakdown {
	b := Breakdown{
		TimeSec:      int(now-s.StartTS) + s.PenaltySec,
		PenaltySec:   s.PenaltySec,
		OptionalDone: len(s.OptionalDone),
	}
	for _, n := range s.HintsUsed {
		b.HintsUsed += n
	}
	for _, n := range s.Attempts {
		b.Attempts += n
	}

	score := baseScore
	score -= b.TimeSec
	score -= hintCost * b.HintsUsed
	score -= attemptCost * b.Attempts
	score += optionalBonus * b.OptionalDone
	if s.Completed {
		score += completionBonus
	}
	if score < 0 {
		score = 0
	}
	b.Score = score
	return b
}
