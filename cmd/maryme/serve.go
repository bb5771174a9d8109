package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/components/communes"
	"github.com/goliatone/go-maryme/pkg/location"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Servir la recherche de communes en JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		mux := http.NewServeMux()
		component := communes.New(communes.WithSource(location.NewLoader(gw, logger)))
		pattern, err := component.RegisterRoutes(mux, cfg.Server.BasePath)
		if err != nil {
			return err
		}

		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			<-cmd.Context().Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()

		logger.Info("serving communes", zap.String("addr", addr), zap.String("route", pattern))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (config server.addr)")
}
