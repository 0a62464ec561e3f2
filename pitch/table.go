package pitch

import (
	"fmt"
	"math"
)

// NTSC 2A03 CPU clock in Hz.
const CPUClock = 1789773.0

const (
	minMidiNumber = 21  // A0
	maxMidiNumber = 108 // C8

	maxTimerPeriod = 2047 // 11-bit timer
	minPulsePeriod = 8    // the pulse channels mute below this
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type NullPeriod struct {
	Value int
	Valid bool
}

// Entry describes one equal-tempered note and the timer periods that come
// closest to it on the pulse and triangle channels.
type Entry struct {
	Name       string
	MidiNumber int
	Frequency  float64

	PulsePeriod      NullPeriod
	PulseFrequency   float64
	PulseTuningError float64 // cents

	TrianglePeriod      NullPeriod
	TriangleFrequency   float64
	TriangleTuningError float64 // cents
}

// Period returns the period field consulted for kind.
func (e Entry) Period(kind Kind) (int, bool) {
	switch kind {
	case Pulse:
		return e.PulsePeriod.Value, e.PulsePeriod.Valid
	case Triangle:
		return e.TrianglePeriod.Value, e.TrianglePeriod.Valid
	}
	return 0, false
}

func (e Entry) IsPause() bool {
	return e.MidiNumber == Pause.MidiNumber
}

var Pause = Entry{Name: "pause", MidiNumber: -1}

var table []Entry

func init() {
	table = buildTable()
	for _, kind := range []Kind{Pulse, Triangle} {
		if !hasEntryFor(table, kind) {
			panic(fmt.Sprintf("pitch table has no %v entries", kind))
		}
	}
}

// Table returns a copy of the pitch table in ascending midi order.
func Table() []Entry {
	return append([]Entry(nil), table...)
}

func NoteName(midiNumber int) string {
	octave := midiNumber/12 - 1
	return fmt.Sprintf("%s%d", noteNames[midiNumber%12], octave)
}

func MidiToFrequency(midiNumber int) float64 {
	return 440 * math.Pow(2, float64(midiNumber-69)/12)
}

// timer periods: pulse f = clk / (16 (P+1)), triangle f = clk / (32 (P+1))
func periodFor(freq float64, divider float64) int {
	return int(math.Round(CPUClock/(divider*freq) - 1))
}

func frequencyFor(period int, divider float64) float64 {
	return CPUClock / (divider * float64(period+1))
}

func cents(actual, ideal float64) float64 {
	return 1200 * math.Log2(actual/ideal)
}

func buildTable() []Entry {
	var res []Entry
	for m := minMidiNumber; m <= maxMidiNumber; m++ {
		e := Entry{
			Name:       NoteName(m),
			MidiNumber: m,
			Frequency:  MidiToFrequency(m),
		}

		if p := periodFor(e.Frequency, 16); p >= minPulsePeriod && p <= maxTimerPeriod {
			e.PulsePeriod = NullPeriod{Value: p, Valid: true}
			e.PulseFrequency = frequencyFor(p, 16)
			e.PulseTuningError = cents(e.PulseFrequency, e.Frequency)
		}

		if p := periodFor(e.Frequency, 32); p >= 0 && p <= maxTimerPeriod {
			e.TrianglePeriod = NullPeriod{Value: p, Valid: true}
			e.TriangleFrequency = frequencyFor(p, 32)
			e.TriangleTuningError = cents(e.TriangleFrequency, e.Frequency)
		}

		res = append(res, e)
	}
	return res
}

func hasEntryFor(entries []Entry, kind Kind) bool {
	for _, e := range entries {
		if _, ok := e.Period(kind); ok {
			return true
		}
	}
	return false
}
