package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/chiptheory/constants"
	"github.com/jsphweid/chiptheory/file"
	"github.com/jsphweid/chiptheory/server"
	"github.com/jsphweid/chiptheory/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	addr       string
	dumpDir    string
	serverOpts = server.DefaultOptions
)

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&dumpDir, "dumps", constants.GetDumpDir(), "directory of dumps to preload")
	serveCmd.Flags().StringSliceVar(&serverOpts.AllowedOrigins, "cors-origin", serverOpts.AllowedOrigins, "allowed CORS origins")
	serveCmd.Flags().Float64Var(&serverOpts.RequestsPerSecond, "rps", serverOpts.RequestsPerSecond, "request rate limit, 0 for none")
	serveCmd.Flags().IntVar(&serverOpts.Burst, "burst", serverOpts.Burst, "request burst size")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analysis API",
	Long:  `Serves notes, analysis state and the measure grid over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func preloadDumps(s *server.Server, dir string) {
	paths, err := util.GatherAllDumpPaths(dir, 0)
	if err != nil {
		logrus.WithError(err).WithField("dir", dir).Warn("no dumps preloaded")
		return
	}
	for id, path := range file.CreateTrackMap(paths) {
		dump, err := file.ReadDump(path)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("skipping dump")
			continue
		}
		s.AddTrack(id, dump)
	}
}

func serve() error {
	st, flush, err := openStore()
	if err != nil {
		return err
	}
	s := server.New(st, serverOpts)
	preloadDumps(s, dumpDir)

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errs := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("listening")
		errs <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("unclean shutdown")
		}
	}
	return flush()
}
