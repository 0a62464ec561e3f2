package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chiptheory/analysis"
	"github.com/jsphweid/chiptheory/chord"
	"github.com/jsphweid/chiptheory/file"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/note"
	"github.com/jsphweid/chiptheory/scale"
	"github.com/jsphweid/chiptheory/store"
	"github.com/sirupsen/logrus"
)

// lookup returns the track named in the route, writing a 404 if it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *track, bool) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	t, ok := s.tracks[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no track %q", id))
	}
	return id, t, ok
}

func (s *Server) loadState(w http.ResponseWriter, id string) (model.AnalysisState, bool) {
	state, err := store.Load(s.store, id)
	if err != nil {
		logrus.WithError(err).WithField("track", id).Error("could not load analysis")
		writeError(w, http.StatusInternalServerError, "could not load analysis")
		return state, false
	}
	return state, true
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	dump, err := file.ParseDump(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := s.AddTrack("", dump)
	writeJSON(w, http.StatusCreated, model.CreateTrackResponse{Id: id})
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.TrackIds())
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	id, t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state, ok := s.loadState(w, id)
	if !ok {
		return
	}

	classes := scale.ForKey(state.Key)
	res := model.NotesResponse{Voices: make(map[model.Voice][]model.ClassifiedNote)}
	for _, v := range model.Voices {
		notes := t.voices[v]
		classified := make([]model.ClassifiedNote, 0, len(notes))
		for _, n := range notes {
			c := classes.Classify(n.Pitch.MidiNumber)
			if v == model.Noise {
				c = scale.Classification{}
			}
			classified = append(classified, model.ClassifiedNote{
				Note:     n,
				Degree:   c.Degree,
				Diatonic: c.Diatonic,
				Color:    scale.Color(v, c),
			})
		}
		res.Voices[v] = classified
	}
	if lo, hi, ok := note.MidiRange(t.tonal); ok {
		res.MinMidiNumber, res.MaxMidiNumber = lo, hi
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlaying(w http.ResponseWriter, r *http.Request) {
	_, t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	positionMs, err := strconv.ParseFloat(r.URL.Query().Get("positionMs"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "positionMs must be a number")
		return
	}
	playing := note.CurrentlyPlaying(t.tonal, positionMs)
	writeJSON(w, http.StatusOK, model.PlayingResponse{
		PositionMs:   positionMs,
		Notes:        playing,
		Chord:        chord.CreateChordKey(playing),
		PitchClasses: chord.PitchClasses(playing),
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	id, t, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.loadState(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.grid.Compute(state, t.tonal))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state, ok := s.loadState(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// mutate runs one analysis transition for a track while holding the writer
// lock and responds with the new state.
func (s *Server) mutate(w http.ResponseWriter, id string, fn func(model.AnalysisState, analysis.SaveFunc) model.AnalysisState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.loadState(w, id)
	if !ok {
		return
	}
	next := fn(state, store.Saver(s.store, id))
	logrus.WithFields(logrus.Fields{
		"track": id,
		"phase": analysis.PhaseOf(next).String(),
	}).Debug("analysis changed")
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleResetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mutate(w, id, func(_ model.AnalysisState, save analysis.SaveFunc) model.AnalysisState {
		return analysis.Reset(save)
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	id, t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	_, clicked, ok := clickedNote(w, r, t)
	if !ok {
		return
	}
	s.mutate(w, id, func(state model.AnalysisState, save analysis.SaveFunc) model.AnalysisState {
		return analysis.Advance(clicked, state.SelectedDownbeat, state, save)
	})
}

// clickedNote decodes a click body and finds the note it names, writing a 400
// when there is no such note.
func clickedNote(w http.ResponseWriter, r *http.Request, t *track) (model.Voice, model.Note, bool) {
	var body model.ClickRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse click: "+err.Error())
		return "", model.Note{}, false
	}
	notes := t.voices[body.Voice]
	if body.Index < 0 || body.Index >= len(notes) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v has no note %d", body.Voice, body.Index))
		return "", model.Note{}, false
	}
	return body.Voice, notes[body.Index], true
}

func (s *Server) handleTonic(w http.ResponseWriter, r *http.Request) {
	id, t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	voice, clicked, ok := clickedNote(w, r, t)
	if !ok {
		return
	}
	if voice == model.Noise {
		writeError(w, http.StatusBadRequest, "noise notes have no pitch class")
		return
	}
	s.mutate(w, id, func(state model.AnalysisState, save analysis.SaveFunc) model.AnalysisState {
		return analysis.SetTonicFromNote(clicked, state, save)
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var key *model.Key
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse key: "+err.Error())
		return
	}
	if key != nil && key.Mode != "" && !key.Mode.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", key.Mode))
		return
	}
	s.mutate(w, id, func(state model.AnalysisState, save analysis.SaveFunc) model.AnalysisState {
		return analysis.SetKey(key, state, save)
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body model.SelectionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse selection: "+err.Error())
		return
	}
	s.mutate(w, id, func(state model.AnalysisState, save analysis.SaveFunc) model.AnalysisState {
		return analysis.SelectDownbeat(body.Index, state, save)
	})
}
