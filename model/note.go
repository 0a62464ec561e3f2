package model

type Pitch struct {
	MidiNumber int    `json:"midiNumber"`
	Name       string `json:"name"`
}

// Span is [start, end) in seconds from the beginning of the track.
type Span = [2]float64

type Note struct {
	Pitch Pitch `json:"note"`
	Span  Span  `json:"span"`

	// the hardware period the note was estimated from
	RawPeriod int `json:"rawPeriod"`
}

func (n Note) Start() float64 {
	return n.Span[0]
}

func (n Note) End() float64 {
	return n.Span[1]
}

type Voice string

const (
	Pulse1   Voice = "pulse1"
	Pulse2   Voice = "pulse2"
	Triangle Voice = "triangle"
	Noise    Voice = "noise"
)

var Voices = []Voice{Pulse1, Pulse2, Triangle, Noise}

// ChipStateDump holds one period per frame for every voice. -1 means silence.
type ChipStateDump struct {
	P1 []int `json:"p1"`
	P2 []int `json:"p2"`
	T  []int `json:"t"`
	N  []int `json:"n"`
}

func (d ChipStateDump) Periods(v Voice) []int {
	switch v {
	case Pulse1:
		return d.P1
	case Pulse2:
		return d.P2
	case Triangle:
		return d.T
	case Noise:
		return d.N
	}
	return nil
}

type VoiceNotes = map[Voice][]Note
