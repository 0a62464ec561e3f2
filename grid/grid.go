package grid

import (
	"github.com/jsphweid/chiptheory/constants"
	"github.com/jsphweid/chiptheory/model"
	"gonum.org/v1/gonum/floats"
)

// slack when comparing an extrapolated measure with the end of the track
const epsilon = 1e-9

type Calculator struct {
	BeatsPerMeasure int
	MaxMeasures     int
}

var Default = Calculator{
	BeatsPerMeasure: constants.BeatsPerMeasure,
	MaxMeasures:     constants.MaxMeasures,
}

func Compute(state model.AnalysisState, notes []model.Note) model.MeasuresAndBeats {
	return Default.Compute(state, notes)
}

// Compute extrapolates measures from the first two anchors across the time
// covered by notes. Measure i sits at anchors[0] + i*L unless it has a
// correction, and its beats are spread over L from wherever it sits.
func (c Calculator) Compute(state model.AnalysisState, notes []model.Note) model.MeasuresAndBeats {
	res := model.EmptyMeasuresAndBeats()
	if len(state.Anchors) < 2 || len(notes) == 0 || c.BeatsPerMeasure <= 0 {
		return res
	}

	a0 := state.Anchors[0]
	length := state.Anchors[1] - a0
	if !(length > 0) {
		return res
	}

	start, end := bounds(notes)

	first := 0
	for n := 0; n < c.MaxMeasures && a0+float64(first-1)*length >= start-epsilon; n++ {
		first--
	}
	res.FirstIndex = first

	beat := length / float64(c.BeatsPerMeasure)
	for i := first; len(res.Measures) < c.MaxMeasures; i++ {
		nominal := a0 + float64(i)*length
		if nominal > end+epsilon {
			break
		}
		t := nominal
		if corrected, ok := state.CorrectedMeasures[i]; ok {
			t = corrected
		}
		res.Measures = append(res.Measures, t)
		for j := 0; j < c.BeatsPerMeasure; j++ {
			res.Beats = append(res.Beats, t+float64(j)*beat)
		}
	}
	return res
}

func bounds(notes []model.Note) (start, end float64) {
	starts := make([]float64, len(notes))
	ends := make([]float64, len(notes))
	for i, n := range notes {
		starts[i] = n.Span[0]
		ends[i] = n.Span[1]
	}
	return floats.Min(starts), floats.Max(ends)
}

// MeasureIndex returns the measure index of res.Measures[i].
func MeasureIndex(res model.MeasuresAndBeats, i int) int {
	return res.FirstIndex + i
}
