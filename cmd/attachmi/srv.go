package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"attachmi/internal/blobstore"
	"attachmi/internal/config"
	"attachmi/internal/server"
	"attachmi/internal/service"
	"attachmi/internal/shell"
	"attachmi/internal/state"
	"attachmi/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var sweep bool

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Run the attachmi API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			blobs, err := blobstore.NewLocalDir(cfg.BlobDir)
			if err != nil {
				return err
			}

			osShell, err := shell.NewOSShell(cfg.DownloadsDir)
			if err != nil {
				return err
			}

			sessionState := state.New()
			svc := service.New(st, blobs, osShell, sessionState, logger)

			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}

			if sweep {
				result, err := svc.SweepOrphanBlobs(cmd.Context(), true)
				if err != nil {
					return err
				}
				logger.Info("startup sweep", "candidates", result.Candidates, "deleted", result.Deleted, "failed", result.Failed)
			}

			srv := server.New(server.Options{
				Addr:          addr,
				Version:       version,
				DBPath:        cfg.DBPath,
				BlobDir:       cfg.BlobDir,
				AutosaveDelay: time.Duration(cfg.AutosaveDelayMS) * time.Millisecond,
			}, svc, sessionState, st, logger)
			defer srv.Close()
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().BoolVar(&sweep, "sweep", false, "delete orphaned files on startup")
	return cmd
}
