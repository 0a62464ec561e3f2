package analysis

import (
	"math"

	"github.com/jsphweid/chiptheory/model"
	"github.com/sirupsen/logrus"
)

type Phase int

const (
	Empty Phase = iota
	OneAnchor
	Seeded
	Corrected
)

func (p Phase) String() string {
	switch p {
	case Empty:
		return "empty"
	case OneAnchor:
		return "one anchor"
	case Seeded:
		return "seeded"
	case Corrected:
		return "corrected"
	}
	return "unknown"
}

func PhaseOf(s model.AnalysisState) Phase {
	switch {
	case len(s.Anchors) == 0:
		return Empty
	case len(s.Anchors) == 1:
		return OneAnchor
	case len(s.CorrectedMeasures) == 0:
		return Seeded
	}
	return Corrected
}

// SaveFunc persists a full snapshot. It is called after every transition.
type SaveFunc func(model.AnalysisState) error

func save(fn SaveFunc, s model.AnalysisState) {
	if fn == nil {
		return
	}
	if err := fn(s); err != nil {
		logrus.WithError(err).Warn("could not save analysis")
	}
}

// Advance applies one note click and returns the next snapshot. current is
// never modified.
//
// Without a selection a click picks something: the first anchor while the
// grid is not seeded, otherwise the measure nearest to the click. With a
// selection the click commits: the second anchor, a re-seeded anchor for
// measures 0 and 1, or a correction for any other measure.
func Advance(clicked model.Note, selected *int, current model.AnalysisState, fn SaveFunc) model.AnalysisState {
	next := transition(clicked.Start(), selected, current)
	save(fn, next)
	return next
}

func transition(t float64, selected *int, current model.AnalysisState) model.AnalysisState {
	next := current.Clone()
	phase := PhaseOf(current)

	if selected == nil {
		next.SelectedDownbeat = nil
		switch phase {
		case Empty, OneAnchor:
			next.Anchors = []float64{t}
			next.SelectedDownbeat = intPtr(0)
		default:
			next.SelectedDownbeat = intPtr(NearestMeasure(current, t))
		}
		return next
	}

	k := *selected
	next.SelectedDownbeat = nil
	switch phase {
	case Empty:
		next.Anchors = []float64{t}
		next.SelectedDownbeat = intPtr(0)
	case OneAnchor:
		if t == current.Anchors[0] {
			next.SelectedDownbeat = intPtr(k)
			return next
		}
		next.Anchors = sortedPair(current.Anchors[0], t)
	default:
		if k == 0 || k == 1 {
			if t == current.Anchors[1-k] {
				next.SelectedDownbeat = intPtr(k)
				return next
			}
			next.Anchors[k] = t
			next.Anchors = sortedPair(next.Anchors[0], next.Anchors[1])
			delete(next.CorrectedMeasures, k)
		} else {
			next.CorrectedMeasures[k] = t
		}
	}
	return next
}

// NearestMeasure returns the index of the measure whose timestamp is closest
// to t, taking corrections into account. Ties go to the lower index. The
// state must be seeded.
func NearestMeasure(s model.AnalysisState, t float64) int {
	a0, a1 := s.Anchors[0], s.Anchors[1]
	length := a1 - a0
	if length <= 0 {
		return 0
	}

	nominal := int(math.Round((t - a0) / length))
	best := nominal
	bestDiff := math.Abs(measureAt(s, nominal, a0, length) - t)
	for _, i := range s.CorrectedIndices() {
		diff := math.Abs(s.CorrectedMeasures[i] - t)
		if diff < bestDiff || (diff == bestDiff && i < best) {
			best, bestDiff = i, diff
		}
	}
	// a correction may have moved the nominal measure away; check its neighbours
	for _, i := range []int{nominal - 1, nominal + 1} {
		diff := math.Abs(measureAt(s, i, a0, length) - t)
		if diff < bestDiff || (diff == bestDiff && i < best) {
			best, bestDiff = i, diff
		}
	}
	return best
}

func measureAt(s model.AnalysisState, i int, a0, length float64) float64 {
	if c, ok := s.CorrectedMeasures[i]; ok {
		return c
	}
	return a0 + float64(i)*length
}

// SetKey replaces the key. A nil key clears it.
func SetKey(key *model.Key, current model.AnalysisState, fn SaveFunc) model.AnalysisState {
	next := current.Clone()
	next.Key = nil
	if key != nil {
		k := *key
		k.Root = pitchClass(k.Root)
		if k.Mode == "" {
			k.Mode = model.Major
		}
		next.Key = &k
	}
	save(fn, next)
	return next
}

// SetTonicFromNote uses the clicked note's pitch class as the root, keeping
// the current mode.
func SetTonicFromNote(clicked model.Note, current model.AnalysisState, fn SaveFunc) model.AnalysisState {
	key := model.Key{Root: clicked.Pitch.MidiNumber, Mode: model.Major}
	if current.Key != nil {
		key.Mode = current.Key.Mode
	}
	return SetKey(&key, current, fn)
}

// SelectDownbeat marks a measure index for the next click to commit to.
func SelectDownbeat(index *int, current model.AnalysisState, fn SaveFunc) model.AnalysisState {
	next := current.Clone()
	next.SelectedDownbeat = nil
	if index != nil {
		next.SelectedDownbeat = intPtr(*index)
	}
	save(fn, next)
	return next
}

func Reset(fn SaveFunc) model.AnalysisState {
	next := model.NewAnalysisState()
	save(fn, next)
	return next
}

func pitchClass(n int) int {
	return ((n % 12) + 12) % 12
}

func sortedPair(a, b float64) []float64 {
	if b < a {
		return []float64{b, a}
	}
	return []float64{a, b}
}

func intPtr(i int) *int {
	return &i
}
