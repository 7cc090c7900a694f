package scan

import "math"

// MaxScore is the highest score a Scorer can report. It is also the
// value every Scorer is reset to before any symbol is scored; scoring a
// sequence can only ever decrease it. An encoder trying multiple
// traversal orders may stop early once a method's score stays at
// MaxScore, since no other order can do better.
const MaxScore = math.MaxInt32

// Scorer rates how "locally smooth" a sequence of sample values is under
// a particular traversal order: the more consecutive samples resemble
// their neighbour, the higher the score. The adaptive block encoder
// tries every Method and keeps the traversal with the best score.
type Scorer interface {
	// Reset restores the initial score (MaxScore) and neighbour state,
	// preparing to score a fresh sequence of samples.
	Reset()
	// Next folds one more sample (in traversal order) into the running
	// score.
	Next(v uint8)
	// Score returns the current accumulated score.
	Score() int
}

// NeighbourDifferenceScorer penalizes a traversal by the absolute
// difference between each sample and the one before it (last starts at
// 0), so smooth sequences keep a score closer to MaxScore.
type NeighbourDifferenceScorer struct {
	score int
	last  uint8
}

func (s *NeighbourDifferenceScorer) Reset() {
	s.score = MaxScore
	s.last = 0
}

func (s *NeighbourDifferenceScorer) Next(v uint8) {
	delta := int(v) - int(s.last)
	if delta < 0 {
		delta = -delta
	}
	s.score -= delta
	s.last = v
}

func (s *NeighbourDifferenceScorer) Score() int {
	return s.score
}

// SameNeighboursScorer penalizes a traversal by 1 for every sample that
// differs from the one before it (last starts at 0).
type SameNeighboursScorer struct {
	score int
	last  uint8
}

func (s *SameNeighboursScorer) Reset() {
	s.score = MaxScore
	s.last = 0
}

func (s *SameNeighboursScorer) Next(v uint8) {
	if v != s.last {
		s.score--
	}
	s.last = v
}

func (s *SameNeighboursScorer) Score() int {
	return s.score
}
