package note

import (
	"testing"

	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenthOfASecond = Segmenter{Resolution: 0.1}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, Segment(nil, pitch.Pulse))
	assert.Empty(t, Segment([]int{}, pitch.Triangle))
}

func TestAllSilence(t *testing.T) {
	for _, kind := range []pitch.Kind{pitch.Pulse, pitch.Triangle, pitch.Noise} {
		assert.Empty(t, Segment([]int{-1, -1, -1, -1}, kind))
	}
}

func TestConstantPeriodIsOneNote(t *testing.T) {
	periods := make([]int, 90)
	for i := range periods {
		periods[i] = 253
	}
	notes := tenthOfASecond.Segment(periods, pitch.Pulse)

	require.Len(t, notes, 1)
	assert.Equal(t, 69, notes[0].Pitch.MidiNumber)
	assert.InDelta(t, 0.0, notes[0].Span[0], 1e-9)
	assert.InDelta(t, 9.0, notes[0].Span[1], 1e-9)
	assert.Equal(t, 253, notes[0].RawPeriod)
}

func TestSilenceIsDroppedButConsumesTime(t *testing.T) {
	notes := tenthOfASecond.Segment([]int{-1, -1, 100, 100, 100, 200, 200, -1}, pitch.Pulse)

	require.Len(t, notes, 2)
	assert := assert.New(t)
	assert.NotEqual(notes[0].Pitch.MidiNumber, notes[1].Pitch.MidiNumber)
	assert.InDelta(0.2, notes[0].Span[0], 1e-9)
	assert.InDelta(0.5, notes[0].Span[1], 1e-9)
	assert.InDelta(0.5, notes[1].Span[0], 1e-9)
	assert.InDelta(0.7, notes[1].Span[1], 1e-9)
	assert.Equal(100, notes[0].RawPeriod)
	assert.Equal(200, notes[1].RawPeriod)
}

func TestPeriodsWithSamePitchMerge(t *testing.T) {
	// 253 and 254 both estimate to A4
	notes := tenthOfASecond.Segment([]int{253, 254, 253}, pitch.Pulse)
	require.Len(t, notes, 1)
	assert.Equal(t, 253, notes[0].RawPeriod)
}

func TestAdjacentNotesAreContiguous(t *testing.T) {
	periods := []int{400, 400, 300, 300, 300, 253, 200, 200, 150, 100, 100}
	notes := tenthOfASecond.Segment(periods, pitch.Triangle)

	require.NotEmpty(t, notes)
	for i := 0; i+1 < len(notes); i++ {
		assert.Equal(t, notes[i].Span[1], notes[i+1].Span[0])
		assert.Less(t, notes[i].Span[0], notes[i].Span[1])
	}
	assert.InDelta(t, 1.1, notes[len(notes)-1].Span[1], 1e-9)
}

func TestNotesNeverOverlapAroundSilence(t *testing.T) {
	notes := tenthOfASecond.Segment([]int{300, -1, 300, 300, -1, -1, 200}, pitch.Pulse)

	require.Len(t, notes, 3)
	for i := 0; i+1 < len(notes); i++ {
		assert.LessOrEqual(t, notes[i].Span[1], notes[i+1].Span[0])
	}
}

func TestNoiseVoice(t *testing.T) {
	notes := tenthOfASecond.Segment([]int{1, 5, 2, -1, 3}, pitch.Noise)

	require.Len(t, notes, 3)
	assert.Equal(t, 91, notes[0].Pitch.MidiNumber)
	assert.InDelta(t, 0.2, notes[0].Span[1], 1e-9)
	assert.Equal(t, 92, notes[1].Pitch.MidiNumber)
	assert.Equal(t, 93, notes[2].Pitch.MidiNumber)
}

func TestTimesDoNotDrift(t *testing.T) {
	periods := make([]int, 100001)
	for i := range periods {
		periods[i] = 253
	}
	periods[100000] = 200
	notes := Segment(periods, pitch.Pulse)

	require.Len(t, notes, 2)
	assert.Equal(t, float64(100000)*(1.0/60), notes[1].Span[0])
}

func TestSegmentDumpAndTonal(t *testing.T) {
	dump := model.ChipStateDump{
		P1: []int{253, 253},
		P2: []int{-1, 200},
		T:  []int{126, 126},
		N:  []int{3, 3},
	}
	voices := tenthOfASecond.SegmentDump(dump)

	assert := assert.New(t)
	assert.Len(voices[model.Pulse1], 1)
	assert.Len(voices[model.Pulse2], 1)
	assert.Len(voices[model.Triangle], 1)
	assert.Len(voices[model.Noise], 1)
	assert.Equal(69, voices[model.Triangle][0].Pitch.MidiNumber)

	tonal := Tonal(voices)
	assert.Len(tonal, 3)
	for _, n := range tonal {
		assert.Less(n.Pitch.MidiNumber, 90)
	}
}

func TestCurrentlyPlaying(t *testing.T) {
	notes := tenthOfASecond.Segment([]int{253, 253, 200, 200}, pitch.Pulse)

	playing := CurrentlyPlaying(notes, 100)
	require.Len(t, playing, 1)
	assert.Equal(t, 69, playing[0].Pitch.MidiNumber)

	// boundaries are inclusive on both ends
	assert.Len(t, CurrentlyPlaying(notes, 200), 2)
	assert.Empty(t, CurrentlyPlaying(notes, 500))
}

func TestMidiRange(t *testing.T) {
	_, _, ok := MidiRange(nil)
	assert.False(t, ok)

	notes := []model.Note{
		{Pitch: model.Pitch{MidiNumber: 60}},
		{Pitch: model.Pitch{MidiNumber: 48}},
		{Pitch: model.Pitch{MidiNumber: 72}},
	}
	min, max, ok := MidiRange(notes)
	assert.True(t, ok)
	assert.Equal(t, 48, min)
	assert.Equal(t, 72, max)
}
