package model

import "sort"

type Mode string

const (
	Major      Mode = "major"
	Minor      Mode = "minor"
	Ionian     Mode = "ionian"
	Dorian     Mode = "dorian"
	Phrygian   Mode = "phrygian"
	Lydian     Mode = "lydian"
	Mixolydian Mode = "mixolydian"
	Aeolian    Mode = "aeolian"
	Locrian    Mode = "locrian"
)

var Modes = []Mode{Major, Minor, Ionian, Dorian, Phrygian, Lydian, Mixolydian, Aeolian, Locrian}

func (m Mode) Valid() bool {
	for _, v := range Modes {
		if v == m {
			return true
		}
	}
	return false
}

// Key is a tonal center. Root is a pitch class, 0 == C.
type Key struct {
	Root int  `json:"root"`
	Mode Mode `json:"mode"`
}

// AnalysisState is the user's annotation of a single track. It is owned by
// whoever loaded it; functions in this module never keep a reference to one.
type AnalysisState struct {
	Key               *Key            `json:"key,omitempty"`
	Anchors           []float64       `json:"anchors"`
	CorrectedMeasures map[int]float64 `json:"correctedMeasures"`
	SelectedDownbeat  *int            `json:"selectedDownbeat,omitempty"`
}

func NewAnalysisState() AnalysisState {
	return AnalysisState{
		Anchors:           []float64{},
		CorrectedMeasures: map[int]float64{},
	}
}

// Clone returns a deep copy so callers can derive a new snapshot without
// touching the old one.
func (s AnalysisState) Clone() AnalysisState {
	res := NewAnalysisState()
	if s.Key != nil {
		k := *s.Key
		res.Key = &k
	}
	res.Anchors = append(res.Anchors, s.Anchors...)
	for i, t := range s.CorrectedMeasures {
		res.CorrectedMeasures[i] = t
	}
	if s.SelectedDownbeat != nil {
		sel := *s.SelectedDownbeat
		res.SelectedDownbeat = &sel
	}
	return res
}

// CorrectedIndices returns the overridden measure indices in ascending order.
func (s AnalysisState) CorrectedIndices() []int {
	res := make([]int, 0, len(s.CorrectedMeasures))
	for i := range s.CorrectedMeasures {
		res = append(res, i)
	}
	sort.Ints(res)
	return res
}

type MeasuresAndBeats struct {
	Measures []float64 `json:"measures"`
	Beats    []float64 `json:"beats"`

	// measure index of Measures[0]; anchor 0 is measure 0
	FirstIndex int `json:"firstIndex"`
}

func EmptyMeasuresAndBeats() MeasuresAndBeats {
	return MeasuresAndBeats{Measures: []float64{}, Beats: []float64{}}
}
