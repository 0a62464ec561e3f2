package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/chiptheory/constants"
	"github.com/jsphweid/chiptheory/db"
	"github.com/jsphweid/chiptheory/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	storeKind string
	stateDir  string
)

var rootCmd = &cobra.Command{
	Use:   "chiptheory",
	Short: "Chiptune structure analysis",
	Long: `Segments NES APU period dumps into notes and builds a measure/beat grid
and key classification from downbeats picked by the user.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "logrus level")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", constants.GetStoreKind(), "analysis store: file, memory or dynamo")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", constants.GetStateDir(), "directory for the file store")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// openStore returns the configured store and a function that flushes it.
func openStore() (store.Store, func() error, error) {
	noop := func() error { return nil }
	switch storeKind {
	case "memory":
		return store.NewMemoryStore(), noop, nil
	case "file":
		fs, err := store.NewFileStore(stateDir, 500*time.Millisecond)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Flush, nil
	case "dynamo":
		d, err := db.Open(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			return nil, nil, err
		}
		return d, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", storeKind)
}
