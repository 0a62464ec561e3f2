package store

import (
	"testing"
	"time"

	"github.com/jsphweid/chiptheory/analysis"
	"github.com/jsphweid/chiptheory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clickAt(start float64) model.Note {
	return model.Note{Pitch: model.Pitch{MidiNumber: 60}, Span: model.Span{start, start + 1}}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	s, err := Load(NewMemoryStore(), "nothing-here")
	require.NoError(t, err)
	assert.Equal(t, model.NewAnalysisState(), s)
}

func TestAdvancePersistsThroughSaver(t *testing.T) {
	st := NewMemoryStore()
	s, err := Load(st, "track")
	require.NoError(t, err)

	s = analysis.Advance(clickAt(1), nil, s, Saver(st, "track"))
	s = analysis.Advance(clickAt(3), s.SelectedDownbeat, s, Saver(st, "track"))

	loaded, err := Load(st, "track")
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.Equal(t, []string{"track"}, st.TrackIds())
}

func TestMemoryStoreCopies(t *testing.T) {
	st := NewMemoryStore()
	s := model.NewAnalysisState()
	s.Anchors = []float64{1, 2}
	require.NoError(t, st.Set("a", s))

	s.Anchors[0] = 9
	got, ok, err := st.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.Anchors[0])
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	s := model.NewAnalysisState()
	s.Anchors = []float64{0.5, 2.5}
	s.CorrectedMeasures[4] = 8.75
	s.Key = &model.Key{Root: 9, Mode: model.Minor}
	require.NoError(t, fs.Set("song", s))
	require.NoError(t, fs.Set("empty", model.NewAnalysisState()))
	require.NoError(t, fs.Flush())

	reopened, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	got, err := Load(reopened, "song")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	empty, err := Load(reopened, "empty")
	require.NoError(t, err)
	assert.Equal(t, model.NewAnalysisState(), empty)
}

func TestFileStoreKeepsSelectionOfMeasureZero(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	s := analysis.Advance(clickAt(1), nil, model.NewAnalysisState(), Saver(fs, "song"))
	require.NotNil(t, s.SelectedDownbeat)
	require.Equal(t, 0, *s.SelectedDownbeat)
	require.NoError(t, fs.Flush())

	reopened, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)
	loaded, err := Load(reopened, "song")
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	require.NotNil(t, loaded.SelectedDownbeat)

	next := analysis.Advance(clickAt(3), loaded.SelectedDownbeat, loaded, Saver(reopened, "song"))
	assert.Equal(t, []float64{1, 3}, next.Anchors)
	assert.Equal(t, analysis.Seeded, analysis.PhaseOf(next))
}

func TestFileStoreDebouncedFlush(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, 10*time.Millisecond)
	require.NoError(t, err)

	s := model.NewAnalysisState()
	s.Anchors = []float64{1}
	require.NoError(t, fs.Set("song", s))

	assert.Eventually(t, func() bool {
		reopened, err := NewFileStore(dir, time.Hour)
		if err != nil {
			return false
		}
		_, ok, _ := reopened.Get("song")
		return ok
	}, 2*time.Second, 20*time.Millisecond)
}
