package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/chiptheory/analysis"
	"github.com/jsphweid/chiptheory/file"
	"github.com/jsphweid/chiptheory/grid"
	"github.com/jsphweid/chiptheory/midi"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/note"
	"github.com/jsphweid/chiptheory/scale"
	"github.com/jsphweid/chiptheory/store"
	"github.com/jsphweid/chiptheory/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <dump.json|export.mid>",
	Short: "Creates a report",
	Long:  `Summarizes a dump or an exported MIDI file and the saved analysis for its track.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), args[0], st)
	},
}

type trackReport struct {
	bytes      int64
	duration   time.Duration
	noteCounts map[model.Voice]int
	phase      analysis.Phase
	key        *model.Key
	measures   int
	firstIndex int
}

// readVoices loads a dump, or reads back the voices of an exported MIDI file.
func readVoices(path string) (model.VoiceNotes, error) {
	if strings.EqualFold(filepath.Ext(path), ".mid") {
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return nil, err
		}
		return midi.ReadNotes(s), nil
	}
	dump, err := file.ReadDump(path)
	if err != nil {
		return nil, err
	}
	return note.SegmentDump(dump), nil
}

func analyzeTrack(path string, st store.Store) (trackReport, error) {
	var r trackReport
	stats, err := os.Stat(path)
	if err != nil {
		return r, err
	}
	r.bytes = stats.Size()

	voices, err := readVoices(path)
	if err != nil {
		return r, err
	}
	r.noteCounts = make(map[model.Voice]int)
	for _, v := range model.Voices {
		r.noteCounts[v] = len(voices[v])
	}
	tonal := note.Tonal(voices)
	r.duration = time.Duration(note.Duration(tonal) * float64(time.Second))

	state, err := store.Load(st, file.TrackId(path))
	if err != nil {
		return r, err
	}
	r.phase = analysis.PhaseOf(state)
	r.key = state.Key
	g := grid.Compute(state, tonal)
	r.measures = len(g.Measures)
	if r.measures > 0 {
		r.firstIndex = grid.MeasureIndex(g, 0)
	}
	return r, nil
}

func report(w io.Writer, path string, st store.Store) error {
	r, err := analyzeTrack(path, st)
	if err != nil {
		return err
	}

	counts := make([]int, 0, len(model.Voices))
	fmt.Fprintf(w, "track: %v\n", file.TrackId(path))
	fmt.Fprintf(w, "size: %v\n", humanize.Bytes(uint64(r.bytes)))
	fmt.Fprintf(w, "duration: %v\n", durafmt.Parse(r.duration.Round(time.Millisecond)).LimitFirstN(2))
	for _, v := range model.Voices {
		fmt.Fprintf(w, "%v notes: %v\n", v, humanize.Comma(int64(r.noteCounts[v])))
		counts = append(counts, r.noteCounts[v])
	}
	fmt.Fprintf(w, "total notes: %v\n", util.Sum(counts))
	fmt.Fprintf(w, "analysis: %v\n", r.phase)
	fmt.Fprintf(w, "key: %v\n", scale.KeyName(r.key))
	fmt.Fprintf(w, "measures: %v\n", r.measures)
	if r.measures > 0 {
		fmt.Fprintf(w, "first measure: %v\n", r.firstIndex)
	}
	return nil
}
