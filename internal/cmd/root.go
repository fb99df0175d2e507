package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/printer"
	"github.com/tomasbasham/cli-runtime/templates"
)

var (
	rootLong = templates.LongDesc(``)

	rootExamples = templates.Examples(``)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// NCAOptions defines the options for the `nca` command.
type NCAOptions struct {
	Logger *zap.Logger

	iooption.IOStreams
}

// NewNCAOptions provides an initialised NCAOptions instance.
func NewNCAOptions(streams iooption.IOStreams, logger *zap.Logger) *NCAOptions {
	return &NCAOptions{
		Logger:    logger,
		IOStreams: streams,
	}
}

// NewRootCommand creates the `nca` command with default arguments.
func NewRootCommand() *cobra.Command {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	options := NewNCAOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}, logger)

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `nca` command and its nested
// children.
func NewRootCommandWithArgs(o *NCAOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "nca [command]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Media storage toolkit for Google Cloud Storage",
		Long:                  rootLong,
		Example:               rootExamples,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}

	printerOpts := printer.WarningPrinterOptions{Color: true}
	printer := printer.NewWarningPrinter(o.ErrOut, printerOpts)
	cmd.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc(printer))

	cmd.AddCommand(NewUploadCommand(NewUploadOptions(o.IOStreams, o.Logger)))
	cmd.AddCommand(NewServeCommand(NewServeOptions(o.Logger)))

	// The globlal normalisation function ensures that all flags specified meet
	// the desired format, changing users' input if necessary.
	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
