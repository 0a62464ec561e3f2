package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/chiptheory/analysis"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/scale"
	"github.com/jsphweid/chiptheory/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <track>",
	Short: "Inspects a saved analysis",
	Long:  `Prints the anchors, corrections and key saved for a track.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		state, err := store.Load(st, args[0])
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), args[0], state)
		return nil
	},
}

func inspect(w io.Writer, trackId string, state model.AnalysisState) {
	fmt.Fprintf(w, "track: %v\n", trackId)
	fmt.Fprintf(w, "phase: %v\n", analysis.PhaseOf(state))
	fmt.Fprintf(w, "key: %v\n", scale.KeyName(state.Key))
	fmt.Fprintf(w, "anchors: %v\n", state.Anchors)
	for _, i := range state.CorrectedIndices() {
		fmt.Fprintf(w, "measure %d: %v\n", i, state.CorrectedMeasures[i])
	}
	if state.SelectedDownbeat != nil {
		fmt.Fprintf(w, "selected downbeat: %d\n", *state.SelectedDownbeat)
	}
}
