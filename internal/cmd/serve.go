package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/bsormagec/no-code-architects-toolkit/internal/config"
	"github.com/bsormagec/no-code-architects-toolkit/internal/server"
	"github.com/bsormagec/no-code-architects-toolkit/internal/storage"
)

type ServeOptions struct {
	cfg *config.Config

	Logger *zap.Logger

	Port int
}

var (
	serveLong = templates.LongDesc(`Start the upload HTTP server.`)

	serveExample = templates.Examples(`
		# Start on the default port
		nca serve

		# Start on a custom port
		nca serve --port 9090`)
)

func NewServeOptions(logger *zap.Logger) *ServeOptions {
	return &ServeOptions{Logger: logger}
}

func NewServeCommand(o *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the upload HTTP server",
		Long:    serveLong,
		Example: serveExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&o.Port, "port", "p", 0, "Port to listen on (default: PORT or 8080)")

	return cmd
}

func (o *ServeOptions) Complete(cmd *cobra.Command, args []string) error {
	o.cfg = config.Load()

	// The flag wins over the PORT environment variable.
	if o.Port == 0 {
		port, err := strconv.Atoi(o.cfg.Port)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", o.cfg.Port, err)
		}
		o.Port = port
	}

	return nil
}

func (o *ServeOptions) Validate() error {
	if o.Port < 1 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	return nil
}

func (o *ServeOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() { _ = o.Logger.Sync() }()

	gateway := storage.NewGateway(ctx, storage.Config{
		Bucket:          o.cfg.Storage.Bucket,
		CredentialsJSON: o.cfg.Storage.CredentialsJSON,
	}, o.Logger)

	if !gateway.Enabled() {
		fmt.Println("GCS uploads are disabled: set GCP_SA_CREDENTIALS to enable them")
	}

	spool, err := storage.NewSpool(o.cfg.Storage.SpoolDir)
	if err != nil {
		return fmt.Errorf("failed to initialise spool directory: %w", err)
	}

	srv := server.New(gateway, spool, o.Logger)

	addr := fmt.Sprintf(":%d", o.Port)
	fmt.Printf("Starting upload server on %s\n", addr)
	return srv.ListenAndServe(addr)
}
