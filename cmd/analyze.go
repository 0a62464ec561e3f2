package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/chiptheory/file"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/note"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var parallelism int

func init() {
	analyzeCmd.Flags().IntVarP(&parallelism, "jobs", "j", 4, "dumps segmented at once")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dump.json...]",
	Short: "Segments dumps into notes",
	Long:  `Segments every voice of each chip state dump and prints the notes.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := analyzeAll(args, parallelism)
		failed := 0
		for _, r := range results {
			if r.err != nil {
				logrus.WithError(r.err).WithField("path", r.path).Error("skipping dump")
				failed++
				continue
			}
			printNotes(cmd.OutOrStdout(), r.path, r.voices)
		}
		if failed == len(results) {
			return fmt.Errorf("no dump could be analyzed")
		}
		return nil
	},
}

type analyzed struct {
	path   string
	voices model.VoiceNotes
	err    error
}

// analyzeAll segments dumps concurrently, at most jobs at a time. Results
// keep the order of paths.
func analyzeAll(paths []string, jobs int) []analyzed {
	if jobs < 1 {
		jobs = 1
	}
	res := make([]analyzed, len(paths))
	swg := sizedwaitgroup.New(jobs)
	for i, path := range paths {
		swg.Add()
		go func(i int, path string) {
			defer swg.Done()
			r := analyzed{path: path}
			dump, err := file.ReadDump(path)
			if err != nil {
				r.err = err
			} else {
				r.voices = note.SegmentDump(dump)
			}
			res[i] = r
			logrus.WithField("path", path).Debug("segmented dump")
		}(i, path)
	}
	swg.Wait()
	return res
}

func printNotes(w io.Writer, path string, voices model.VoiceNotes) {
	fmt.Fprintf(w, "%v\n", path)
	for _, v := range model.Voices {
		fmt.Fprintf(w, "  %v: %d notes\n", v, len(voices[v]))
		for _, n := range voices[v] {
			fmt.Fprintf(w, "    %-5s %8.3f %8.3f  (period %d)\n", n.Pitch.Name, n.Span[0], n.Span[1], n.RawPeriod)
		}
	}
}
