package pitch

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/chiptheory/model"
)

// PauseSentinel is the period value a dump uses for silence.
const PauseSentinel = -1

const noiseMidiOffset = 90

type Kind int

const (
	Pulse Kind = iota
	Triangle
	Noise
)

func (k Kind) String() string {
	switch k {
	case Pulse:
		return "pulse"
	case Triangle:
		return "triangle"
	case Noise:
		return "noise"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func KindOf(v model.Voice) Kind {
	switch v {
	case model.Triangle:
		return Triangle
	case model.Noise:
		return Noise
	}
	return Pulse
}

// Estimate maps a hardware period to the nearest note for the given
// oscillator. Silence maps to Pause regardless of kind.
func Estimate(period int, kind Kind) Entry {
	if period == PauseSentinel {
		return Pause
	}
	switch kind {
	case Pulse, Triangle:
		return closest(period, kind)
	case Noise:
		return noise(period)
	}
	panic(fmt.Sprintf("no estimator for %v", kind))
}

// noise has no pitch table; the period selects one of four pseudo-pitches
func noise(period int) Entry {
	residue := period % 4
	return Entry{
		Name:       strconv.Itoa(residue),
		MidiNumber: residue + noiseMidiOffset,
	}
}

// closest returns the first entry in table order with the smallest
// absolute period difference.
func closest(period int, kind Kind) Entry {
	var best Entry
	var bestDiff int
	found := false
	for _, e := range table {
		p, ok := e.Period(kind)
		if !ok {
			continue
		}
		diff := abs(period - p)
		if !found || diff < bestDiff {
			best, bestDiff, found = e, diff, true
		}
	}
	if !found {
		panic(fmt.Sprintf("pitch table has no %v entries", kind))
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (e Entry) Pitch() model.Pitch {
	return model.Pitch{MidiNumber: e.MidiNumber, Name: e.Name}
}
