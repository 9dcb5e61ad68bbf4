package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/DFlowProtocol/endorsement-server/internal/config"
	"github.com/DFlowProtocol/endorsement-server/internal/server"
	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
	"github.com/DFlowProtocol/endorsement-server/pkg/keys"
	"github.com/DFlowProtocol/endorsement-server/pkg/protocol"
	"github.com/DFlowProtocol/endorsement-server/pkg/ratelimit"
	"github.com/DFlowProtocol/endorsement-server/pkg/signature"
)

func main() {
	root := &cobra.Command{
		Use:           "endorsement-server",
		Short:         "Issues signed trade endorsements and approves payment-in-lieu settlements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd(), keygenCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the endorsement server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	secret, err := keys.ReadFile(cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("load key file: %w", err)
	}
	engine, err := signature.NewEngine(secret)
	if err != nil {
		return err
	}

	authority, err := endorsement.NewAuthority(endorsement.Config{
		Engine:        engine,
		Codec:         protocol.Codec{},
		ExpirationTTL: time.Duration(cfg.ExpirationTTLSeconds) * time.Second,
		Gate:          ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("endorsement_key", keys.EncodePublicBase58(authority.PublicKey())).
		Int64("expiration_ttl_seconds", cfg.ExpirationTTLSeconds).
		Str("listen_addr", cfg.ListenAddr).
		Msg("starting endorsement server")

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(authority, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func keygenCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an authority keypair and write the secret key to a file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if outPath == "" {
				return errors.New("--out is required")
			}
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("refusing to overwrite %s", outPath)
			}
			pub, priv, err := keys.Generate(rand.Reader)
			if err != nil {
				return err
			}
			if err := keys.WriteFile(outPath, priv); err != nil {
				return err
			}
			fmt.Printf("wrote %s\nendorsement key: %s\n", outPath, keys.EncodePublicBase58(pub))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "path to write the secret key file")
	return cmd
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(), nil
}
