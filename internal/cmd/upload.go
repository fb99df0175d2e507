package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/bsormagec/no-code-architects-toolkit/internal/config"
	"github.com/bsormagec/no-code-architects-toolkit/internal/storage"
)

type UploadOptions struct {
	Logger *zap.Logger

	Path   string
	Bucket string

	iooption.IOStreams
}

var (
	uploadLong = templates.LongDesc(`
		Upload a local file to Google Cloud Storage and print its public URL.

		Credentials are read from the GCP_SA_CREDENTIALS environment variable
		and the default bucket from GCP_BUCKET_NAME. The object name is the
		base name of the local file, so uploading the same name twice
		overwrites the previous object.`)

	uploadExample = templates.Examples(`
		# Upload to the default bucket
		nca upload ./report.pdf

		# Upload to a specific bucket
		nca upload ./clip.mp4 --bucket my-media-bucket`)
)

func NewUploadOptions(streams iooption.IOStreams, logger *zap.Logger) *UploadOptions {
	return &UploadOptions{
		Logger:    logger,
		IOStreams: streams,
	}
}

func NewUploadCommand(o *UploadOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "upload [FILE]",
		DisableFlagsInUseLine: true,
		Short:                 "Upload a file to Google Cloud Storage",
		Long:                  uploadLong,
		Example:               uploadExample,
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

	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "", "GCS bucket name (default: GCP_BUCKET_NAME)")

	return cmd
}

func (o *UploadOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("file path is required")
	}
	o.Path = args[0]
	return nil
}

func (o *UploadOptions) Validate() error {
	if len(o.Path) == 0 {
		return fmt.Errorf("file path is required")
	}

	info, err := os.Stat(o.Path)
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %q is a directory", o.Path)
	}

	return nil
}

func (o *UploadOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() { _ = o.Logger.Sync() }()

	cfg := config.Load()

	gateway := storage.NewGateway(ctx, storage.Config{
		Bucket:          cfg.Storage.Bucket,
		CredentialsJSON: cfg.Storage.CredentialsJSON,
	}, o.Logger)

	fmt.Fprintf(o.Out, "Uploading %s...\n", o.Path)
	result, err := gateway.UploadFile(ctx, o.Path, o.Bucket)
	if errors.Is(err, storage.ErrNotInitialized) {
		return fmt.Errorf("GCS is not configured: set GCP_SA_CREDENTIALS to enable uploads")
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if result.ContentType != "" {
		fmt.Fprintf(o.Out, "Content type: %s\n", result.ContentType)
	} else {
		fmt.Fprintln(o.ErrOut, "Content type could not be determined; the backend may default to application/octet-stream")
	}

	fmt.Fprintln(o.Out, result.PublicURL)
	return nil
}
