package cmd

import (
	"fmt"

	"github.com/jsphweid/chiptheory/file"
	"github.com/jsphweid/chiptheory/midi"
	"github.com/jsphweid/chiptheory/note"
	"github.com/jsphweid/chiptheory/sample"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportFrom, exportTo float64

func init() {
	exportCmd.Flags().Float64Var(&exportFrom, "from", 0, "excerpt start in seconds")
	exportCmd.Flags().Float64Var(&exportTo, "to", 0, "excerpt end in seconds, 0 for the whole track")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <dump.json> <out.mid>",
	Short: "Writes segmented notes as a MIDI file",
	Long:  `Writes one MIDI track per voice. Noise goes on the drum channel.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(args[0], args[1], exportFrom, exportTo)
	},
}

func export(dumpPath, outPath string, from, to float64) error {
	if to > 0 && to <= from {
		return fmt.Errorf("--to must be after --from")
	}
	dump, err := file.ReadDump(dumpPath)
	if err != nil {
		return err
	}
	voices := sample.Create(note.SegmentDump(dump), from, to)
	if err := midi.WriteMidiFile(outPath, voices); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"dump": dumpPath, "out": outPath}).Info("exported")
	return nil
}
