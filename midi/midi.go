package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/pitch"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	tempoBPM        = 120.0
	ticksPerSecond  = ticksPerQuarter * tempoBPM / 60
	velocity        = 100
)

// noise goes on the General MIDI drum channel
var voiceChannels = map[model.Voice]uint8{
	model.Pulse1:   0,
	model.Pulse2:   1,
	model.Triangle: 2,
	model.Noise:    9,
}

func channelVoice(ch uint8) (model.Voice, bool) {
	for v, c := range voiceChannels {
		if c == ch {
			return v, true
		}
	}
	return "", false
}

func toTicks(seconds float64) uint32 {
	if seconds <= 0 {
		return 0
	}
	return uint32(math.Round(seconds * ticksPerSecond))
}

func fromMicroseconds(us int64) float64 {
	return float64(us) / 1e6
}

// Create builds a type 1 file with a tempo track and one track per voice.
func Create(voices model.VoiceNotes) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(tempoBPM))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return nil, err
	}

	for _, v := range model.Voices {
		notes, ok := voices[v]
		if !ok {
			continue
		}
		if err := s.Add(voiceTrack(v, notes)); err != nil {
			return nil, fmt.Errorf("could not add %v track: %w", v, err)
		}
	}
	return s, nil
}

func voiceTrack(v model.Voice, notes []model.Note) smf.Track {
	ch := voiceChannels[v]
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(string(v)))

	var last uint32
	for _, n := range notes {
		if n.Pitch.MidiNumber < 0 || n.Pitch.MidiNumber > 127 {
			continue
		}
		key := uint8(n.Pitch.MidiNumber)
		on, off := toTicks(n.Span[0]), toTicks(n.Span[1])
		if off <= on {
			continue
		}
		// spans within a voice never overlap, but rounding can pull an onset
		// before the previous release
		if on < last {
			on = last
		}
		tr.Add(on-last, midi.NoteOn(ch, key, velocity))
		tr.Add(off-on, midi.NoteOff(ch, key))
		last = off
	}
	tr.Close(0)
	return tr
}

func Write(w io.Writer, voices model.VoiceNotes) error {
	s, err := Create(voices)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

func WriteMidiFile(path string, voices model.VoiceNotes) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	defer f.Close()
	if err := Write(f, voices); err != nil {
		return fmt.Errorf("could not write %v: %w", path, err)
	}
	return f.Close()
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// ReadNotes recovers per-voice notes from a file written by Create.
// Channels that don't belong to a voice are skipped.
func ReadNotes(s *smf.SMF) model.VoiceNotes {
	res := make(model.VoiceNotes)
	for _, track := range s.Tracks {
		var absTicks int64
		open := make(map[[2]uint8]float64)
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				open[[2]uint8{ch, key}] = fromMicroseconds(s.TimeAt(absTicks))
			case ev.Message.GetNoteEnd(&ch, &key):
				start, ok := open[[2]uint8{ch, key}]
				if !ok {
					continue
				}
				delete(open, [2]uint8{ch, key})
				v, ok := channelVoice(ch)
				if !ok {
					continue
				}
				res[v] = append(res[v], model.Note{
					Pitch: model.Pitch{MidiNumber: int(key), Name: noteName(v, int(key))},
					Span:  model.Span{start, fromMicroseconds(s.TimeAt(absTicks))},
				})
			}
		}
	}
	for v := range res {
		notes := res[v]
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].Span[0] < notes[j].Span[0] })
	}
	return res
}

func noteName(v model.Voice, key int) string {
	if v == model.Noise {
		return strconv.Itoa(key - 90)
	}
	return pitch.NoteName(key)
}
