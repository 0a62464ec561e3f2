package sample

import (
	"math"

	"github.com/jsphweid/chiptheory/model"
)

// Create cuts the notes sounding in [from, to) out of every voice, clipping
// notes at the window edges and shifting time so the excerpt starts at 0.
// to <= 0 means until the end.
func Create(voices model.VoiceNotes, from, to float64) model.VoiceNotes {
	if to <= 0 {
		to = math.Inf(1)
	}
	res := make(model.VoiceNotes, len(voices))
	for v, notes := range voices {
		res[v] = window(notes, from, to)
	}
	return res
}

func window(notes []model.Note, from, to float64) []model.Note {
	res := []model.Note{}
	for _, n := range notes {
		start := math.Max(n.Span[0], from)
		end := math.Min(n.Span[1], to)
		if start >= end {
			continue
		}
		n.Span = model.Span{start - from, end - from}
		res = append(res, n)
	}
	return res
}
