package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chiptheory/midi"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// two seconds of A4 then two seconds of C#5 on pulse 1
func writeTestDump(t *testing.T, dir, name string) string {
	var p1 []int
	for i := 0; i < 120; i++ {
		p1 = append(p1, 253)
	}
	for i := 0; i < 120; i++ {
		p1 = append(p1, 200)
	}
	data, err := json.Marshal(model.ChipStateDump{P1: p1, N: []int{3, 3, -1}})
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestAnalyzeAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeTestDump(t, dir, "a.json")
	missing := filepath.Join(dir, "missing.json")
	b := writeTestDump(t, dir, "b.json")

	res := analyzeAll([]string{a, missing, b}, 2)
	require.Len(t, res, 3)
	assert.Equal(t, a, res[0].path)
	assert.NoError(t, res[0].err)
	assert.Len(t, res[0].voices[model.Pulse1], 2)
	assert.Len(t, res[0].voices[model.Noise], 1)
	assert.Error(t, res[1].err)
	assert.Equal(t, b, res[2].path)
	assert.NoError(t, res[2].err)
}

func TestPrintNotes(t *testing.T) {
	dir := t.TempDir()
	res := analyzeAll([]string{writeTestDump(t, dir, "a.json")}, 0)

	var buf bytes.Buffer
	printNotes(&buf, res[0].path, res[0].voices)
	out := buf.String()
	assert.Contains(t, out, "pulse1: 2 notes")
	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "C#5")
	assert.Contains(t, out, "triangle: 0 notes")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	path := writeTestDump(t, dir, "song.json")
	st := store.NewMemoryStore()
	require.NoError(t, st.Set("song", model.AnalysisState{
		Key:     &model.Key{Root: 9, Mode: model.Major},
		Anchors: []float64{0, 2},
	}))

	var buf bytes.Buffer
	require.NoError(t, report(&buf, path, st))
	out := buf.String()
	assert.Contains(t, out, "track: song")
	assert.Contains(t, out, "duration: 4 seconds")
	assert.Contains(t, out, "pulse1 notes: 2")
	assert.Contains(t, out, "total notes: 3")
	assert.Contains(t, out, "analysis: seeded")
	assert.Contains(t, out, "key: A Major")
	assert.Contains(t, out, "measures: 3")
	assert.Contains(t, out, "first measure: 0")
}

func TestReportDurationIgnoresNoise(t *testing.T) {
	dir := t.TempDir()
	noise := make([]int, 600)
	data, err := json.Marshal(model.ChipStateDump{P1: []int{253, 253, 253, 253, 253, 253}, N: noise})
	require.NoError(t, err)
	path := filepath.Join(dir, "drums.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	var buf bytes.Buffer
	require.NoError(t, report(&buf, path, store.NewMemoryStore()))
	assert.Contains(t, buf.String(), "duration: 100 milliseconds")
	assert.Contains(t, buf.String(), "noise notes: 1")
}

func TestReportReadsExportedMidi(t *testing.T) {
	dir := t.TempDir()
	dump := writeTestDump(t, dir, "song.json")
	out := filepath.Join(dir, "song.mid")
	require.NoError(t, export(dump, out, 0, 0))

	var buf bytes.Buffer
	require.NoError(t, report(&buf, out, store.NewMemoryStore()))
	assert.Contains(t, buf.String(), "track: song")
	assert.Contains(t, buf.String(), "pulse1 notes: 2")
	assert.Contains(t, buf.String(), "duration: 4 seconds")
	assert.Contains(t, buf.String(), "analysis: empty")
}

func TestReportMissingDump(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, report(&buf, filepath.Join(t.TempDir(), "nope.json"), store.NewMemoryStore()))
}

func TestInspect(t *testing.T) {
	sel := 2
	state := model.AnalysisState{
		Anchors:           []float64{1, 3},
		CorrectedMeasures: map[int]float64{2: 5.3},
		SelectedDownbeat:  &sel,
	}

	var buf bytes.Buffer
	inspect(&buf, "song", state)
	out := buf.String()
	assert.Contains(t, out, "phase: corrected")
	assert.Contains(t, out, "key: none")
	assert.Contains(t, out, "measure 2: 5.3")
	assert.Contains(t, out, "selected downbeat: 2")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	dump := writeTestDump(t, dir, "song.json")
	out := filepath.Join(dir, "song.mid")

	require.NoError(t, export(dump, out, 1, 3))
	s, err := midi.ReadMidiFile(out)
	require.NoError(t, err)
	notes := midi.ReadNotes(s)[model.Pulse1]
	require.Len(t, notes, 2)
	assert.Equal(t, 69, notes[0].Pitch.MidiNumber)
	assert.InDelta(t, 0.0, notes[0].Span[0], 1e-3)
	assert.InDelta(t, 2.0, notes[1].Span[1], 1e-3)

	assert.Error(t, export(dump, out, 3, 1))
}
