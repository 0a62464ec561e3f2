package scale

import (
	"github.com/jsphweid/chiptheory/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// semitones above the root that belong to each mode
var intervals = map[model.Mode][7]int{
	model.Major:      {0, 2, 4, 5, 7, 9, 11},
	model.Ionian:     {0, 2, 4, 5, 7, 9, 11},
	model.Dorian:     {0, 2, 3, 5, 7, 9, 10},
	model.Phrygian:   {0, 1, 3, 5, 7, 8, 10},
	model.Lydian:     {0, 2, 4, 6, 7, 9, 11},
	model.Mixolydian: {0, 2, 4, 5, 7, 9, 10},
	model.Minor:      {0, 2, 3, 5, 7, 8, 10},
	model.Aeolian:    {0, 2, 3, 5, 7, 8, 10},
	model.Locrian:    {0, 1, 3, 5, 6, 8, 10},
}

// degree names relative to the major scale
var degrees = [12]string{"1", "b2", "2", "b3", "3", "4", "#4", "5", "b6", "6", "b7", "7"}

var twelveToneColors = [12]string{
	"#ff0000", "#ff7f00", "#ffd800", "#b8e000", "#00c000", "#00d4a0",
	"#00b0ff", "#0060ff", "#5a00ff", "#b000ff", "#ff00d0", "#ff0070",
}

var voiceColors = map[model.Voice]string{
	model.Pulse1:   "#26577C",
	model.Pulse2:   "#AE445A",
	model.Triangle: "#63995a",
	model.Noise:    "white",
}

type Classification struct {
	// false when there is no key to classify against
	Classified bool

	// semitones above the key's root, 0..11
	Interval int
	Degree   string
	Diatonic bool
}

func Classify(midiNumber int, key *model.Key) Classification {
	if key == nil {
		return Classification{}
	}
	interval := mod12(midiNumber - key.Root)
	return Classification{
		Classified: true,
		Interval:   interval,
		Degree:     degrees[interval],
		Diatonic:   isDiatonic(interval, key.Mode),
	}
}

// Lookup holds the classification of every pitch class for one key, so a
// whole note list can be classified without recomputing the mode pattern.
type Lookup struct {
	classified bool
	byInterval [12]Classification
	root       int
}

func ForKey(key *model.Key) Lookup {
	if key == nil {
		return Lookup{}
	}
	l := Lookup{classified: true, root: key.Root}
	for i := range l.byInterval {
		l.byInterval[i] = Classify(key.Root+i, key)
	}
	return l
}

func (l Lookup) Classify(midiNumber int) Classification {
	if !l.classified {
		return Classification{}
	}
	return l.byInterval[mod12(midiNumber-l.root)]
}

func isDiatonic(interval int, mode model.Mode) bool {
	pattern, ok := intervals[mode]
	if !ok {
		pattern = intervals[model.Major]
	}
	for _, i := range pattern {
		if i == interval {
			return true
		}
	}
	return false
}

func VoiceColor(v model.Voice) string {
	if c, ok := voiceColors[v]; ok {
		return c
	}
	return "white"
}

// Color picks the twelve-tone color of a classified note, or the voice color
// when no key is set.
func Color(v model.Voice, c Classification) string {
	if !c.Classified {
		return VoiceColor(v)
	}
	return twelveToneColors[c.Interval]
}

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeyName renders a key like "D Dorian".
func KeyName(key *model.Key) string {
	if key == nil {
		return "none"
	}
	return pitchClassNames[mod12(key.Root)] + " " + cases.Title(language.English).String(string(key.Mode))
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}
