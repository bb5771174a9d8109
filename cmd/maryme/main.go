package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/config"
	"github.com/goliatone/go-maryme/pkg/gateway"
	"github.com/goliatone/go-maryme/pkg/renderers/tui"
)

var (
	configPath string
	backendURL string
	token      string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
	tokens = &gateway.TokenStore{}
)

var rootCmd = &cobra.Command{
	Use:   "maryme",
	Short: "Declaration de mariage civil",
	Long: `maryme files civil-marriage declarations against the etat civil backend.

Declarants run "maryme declare" to walk the declaration wizard. Officers and
administrators review, publish and manage declarations with the officer and
admin commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, config.WithBackendURL(backendURL), config.WithToken(token))
		if err != nil {
			return err
		}
		cfg = loaded
		logger, err = cfg.NewLogger(verbose)
		if err != nil {
			return err
		}
		tokens.Set(cfg.Backend.Token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "maryme.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config and "+config.EnvBackendURL+")")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token (overrides config and "+config.EnvToken+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(declareCmd, regionsCmd, boardCmd, officerCmd, adminCmd, serveCmd)
}

// newGateway builds the backend client from the loaded configuration.
func newGateway() (*gateway.Client, error) {
	return gateway.New(cfg.Backend.BaseURL,
		gateway.WithTokenSource(tokens),
		gateway.WithTimeout(cfg.RequestTimeout()),
		gateway.WithRetry(cfg.Backend.Retries, 0, 0),
		gateway.WithUserAgent(cfg.Backend.UserAgent),
		gateway.WithLogger(logger),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Erreur:", err)
		}
		os.Exit(1)
	}
}
