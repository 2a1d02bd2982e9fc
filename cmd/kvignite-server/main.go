// Command kvignite-server runs the kvignite wire-protocol server: it
// binds an address, opens the requested storage backend against a data
// directory, and serves requests until killed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/kvignite/internal/backend"
	"github.com/iamNilotpal/kvignite/internal/server"
	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/logger"
	"github.com/iamNilotpal/kvignite/pkg/options"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var engine string
	var dataDir string

	cmd := &cobra.Command{
		Use:   "kvignite-server",
		Short: "Run the kvignite key/value store server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("kvignite-server")

			opts := options.NewDefaultOptions()
			options.WithAddr(addr)(&opts)
			options.WithEngine(engine)(&opts)
			options.WithDataDir(dataDir)(&opts)

			eng, err := backend.Open(context.Background(), log, &opts)
			if err != nil {
				if ve, ok := kverrors.AsValidationError(err); ok {
					log.Errorw("refusing to start: configuration rejected",
						"field", ve.Field(), "code", ve.Code(), "details", ve.Details())
				} else {
					log.Errorw("failed to open storage backend", "error", err, "code", kverrors.GetErrorCode(err))
				}
				return err
			}
			defer eng.Close()

			log.Infow("starting server", "addr", opts.Addr, "engine", opts.Engine, "dataDir", opts.DataDir)

			srv := server.New(eng, log)
			if err := srv.Serve(opts.Addr); err != nil {
				log.Errorw("server exited", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", options.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&engine, "engine", options.DefaultEngine, fmt.Sprintf("storage engine (%s|%s)", options.EngineKVS, options.EngineSled))
	cmd.Flags().StringVar(&dataDir, "data-dir", options.DefaultDataDir, "directory the store's files live under")

	return cmd
}
