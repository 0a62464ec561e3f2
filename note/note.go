package note

import (
	"math"

	"github.com/jsphweid/chiptheory/constants"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/pitch"
)

type Segmenter struct {
	// seconds per period sample
	Resolution float64
}

var Default = Segmenter{Resolution: constants.ResolutionSeconds}

func Segment(periods []int, kind pitch.Kind) []model.Note {
	return Default.Segment(periods, kind)
}

// Segment turns a period series into notes. A new note starts whenever the
// estimated midi number changes; silence is segmented like any other pitch
// and dropped at the end.
func (s Segmenter) Segment(periods []int, kind pitch.Kind) []model.Note {
	var notes []model.Note
	for i, period := range periods {
		now := s.timeAt(i)
		estimation := pitch.Estimate(period, kind)
		last := len(notes) - 1
		if last >= 0 && notes[last].Pitch.MidiNumber == estimation.MidiNumber {
			continue
		}
		if last >= 0 {
			notes[last].Span[1] = now
		}
		notes = append(notes, model.Note{
			Pitch:     estimation.Pitch(),
			Span:      model.Span{now, 0},
			RawPeriod: period,
		})
	}
	if len(notes) > 0 {
		notes[len(notes)-1].Span[1] = s.timeAt(len(periods))
	}

	res := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if n.Pitch.MidiNumber != pitch.Pause.MidiNumber {
			res = append(res, n)
		}
	}
	return res
}

func (s Segmenter) timeAt(index int) float64 {
	return float64(index) * s.Resolution
}

// SegmentDump segments every voice of a dump independently.
func (s Segmenter) SegmentDump(dump model.ChipStateDump) model.VoiceNotes {
	res := make(model.VoiceNotes, len(model.Voices))
	for _, v := range model.Voices {
		res[v] = s.Segment(dump.Periods(v), pitch.KindOf(v))
	}
	return res
}

func SegmentDump(dump model.ChipStateDump) model.VoiceNotes {
	return Default.SegmentDump(dump)
}

// Tonal joins the pitched voices. Noise is left out; its midi numbers are
// labels, not pitches.
func Tonal(voices model.VoiceNotes) []model.Note {
	var res []model.Note
	for _, v := range []model.Voice{model.Triangle, model.Pulse1, model.Pulse2} {
		res = append(res, voices[v]...)
	}
	return res
}

func IsPlaying(n model.Note, positionMs float64) bool {
	positionSeconds := positionMs / 1000
	return n.Span[0] <= positionSeconds && positionSeconds <= n.Span[1]
}

func CurrentlyPlaying(notes []model.Note, positionMs float64) []model.Note {
	res := []model.Note{}
	for _, n := range notes {
		if IsPlaying(n, positionMs) {
			res = append(res, n)
		}
	}
	return res
}

// MidiRange returns ok == false for an empty list.
func MidiRange(notes []model.Note) (min int, max int, ok bool) {
	min, max = math.MaxInt, math.MinInt
	for _, n := range notes {
		if n.Pitch.MidiNumber < min {
			min = n.Pitch.MidiNumber
		}
		if n.Pitch.MidiNumber > max {
			max = n.Pitch.MidiNumber
		}
	}
	return min, max, len(notes) > 0
}

// Duration is the latest end time across notes.
func Duration(notes []model.Note) float64 {
	var res float64
	for _, n := range notes {
		if n.Span[1] > res {
			res = n.Span[1]
		}
	}
	return res
}
