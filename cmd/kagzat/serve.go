package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/server"
	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, closer, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer func() {
				if err := closer.Close(); err != nil {
					logger.Warn("closing store failed", zap.Error(err))
				}
			}()

			srv, err := server.New(cfg, server.WithLogger(logger), server.WithStore(store))
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
