package store

import (
	"fmt"
	"sync"

	"github.com/jsphweid/chiptheory/analysis"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/util"
)

// Store keeps one AnalysisState per track.
type Store interface {
	Get(trackId string) (model.AnalysisState, bool, error)
	Set(trackId string, s model.AnalysisState) error
}

// Load returns the saved state for a track, or a fresh one when nothing has
// been saved yet.
func Load(st Store, trackId string) (model.AnalysisState, error) {
	s, ok, err := st.Get(trackId)
	if err != nil {
		return model.NewAnalysisState(), fmt.Errorf("could not load analysis for %v: %w", trackId, err)
	}
	if !ok {
		return model.NewAnalysisState(), nil
	}
	return Normalize(s), nil
}

// Saver binds a store to one track for analysis transitions.
func Saver(st Store, trackId string) analysis.SaveFunc {
	return func(s model.AnalysisState) error {
		return st.Set(trackId, s)
	}
}

// Normalize replaces nil collections, which some encodings produce for empty
// ones.
func Normalize(s model.AnalysisState) model.AnalysisState {
	if s.Anchors == nil {
		s.Anchors = []float64{}
	}
	if s.CorrectedMeasures == nil {
		s.CorrectedMeasures = map[int]float64{}
	}
	return s
}

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]model.AnalysisState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]model.AnalysisState)}
}

func (m *MemoryStore) Get(trackId string) (model.AnalysisState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[trackId]
	if !ok {
		return model.AnalysisState{}, false, nil
	}
	return s.Clone(), true, nil
}

func (m *MemoryStore) Set(trackId string, s model.AnalysisState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[trackId] = s.Clone()
	return nil
}

func (m *MemoryStore) TrackIds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return util.SortedKeys(m.states)
}
