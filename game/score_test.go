package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFreshSession(t *testing.T) {
	s := newSession(100)
	b := ScoreOf(s, 100)
	assert.Equal(t, 1000, b.Score)
	assert.Equal(t, 0, b.TimeSec)
}

func TestScoreFormula(t *testing.T) {
	s := newSession(0)
	s.PenaltySec = 60
	s.HintsUsed[1] = 1
	s.HintsUsed[3] = 2
	s.Attempts[1] = 4
	s.Attempts[2] = 6
	s.OptionalDone = []string{"A", "C"}
	s.Completed = true

	// time = 100 + 60 = 160, hints = 3, attempts = 10, optionals = 2
	b := ScoreOf(s, 100)
	assert.Equal(t, 160, b.TimeSec)
	assert.Equal(t, 60, b.PenaltySec)
	assert.Equal(t, 3, b.HintsUsed)
	assert.Equal(t, 10, b.Attempts)
	assert.Equal(t, 2, b.OptionalDone)
	assert.Equal(t, 1000-160-40*3-5*10+50*2+200, b.Score)
}

func TestScoreNeverNegative(t *testing.T) {
	s := newSession(0)
	b := ScoreOf(s, 5000)
	assert.Equal(t, 0, b.Score)
}

func TestScoreMonotonicInTime(t *testing.T) {
	s := newSession(0)
	prev := ScoreOf(s, 0).Score
	for _, now := range []int64{10, 100, 500, 900, 2000} {
		cur := ScoreOf(s, now).Score
		assert.LessOrEqual(t, cur, prev, "score must not increase with elapsed time")
		prev = cur
	}
}

func TestScoreMonotonicInHintsAndAttempts(t *testing.T) {
	base := newSession(0)
	prev := ScoreOf(base, 10).Score
	for i := 1; i <= 5; i++ {
		s := newSession(0)
		s.HintsUsed[1] = i
		cur := ScoreOf(s, 10).Score
		assert.Less(t, cur, prev)
		prev = cur
	}

	prev = ScoreOf(base, 10).Score
	for i := 1; i <= 5; i++ {
		s := newSession(0)
		s.Attempts[1] = i
		cur := ScoreOf(s, 10).Score
		assert.Less(t, cur, prev)
		prev = cur
	}
}

func TestScoreSameFormulaProvisionalAndFinal(t *testing.T) {
	s := newSession(0)
	s.Attempts[1] = 2
	provisional := ScoreOf(s, 50)
	s.Completed = true
	final := ScoreOf(s, 50)
	assert.Equal(t, provisional.Score+completionBonus, final.Score)
}
