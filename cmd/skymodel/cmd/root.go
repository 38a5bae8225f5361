package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/msto63/skymodel/internal/skymodel"
	"github.com/msto63/skymodel/pkg/core/config"
	skyerr "github.com/msto63/skymodel/pkg/core/error"
	"github.com/msto63/skymodel/pkg/core/logging"
)

// rootOptions carries global flags and the state built from them
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd builds the complete command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "skymodel",
		Short: "Sky model text format tools",
		Long: `skymodel reads, writes and converts brace-structured sky model files
describing radio sources, their components and spectra.

Commands:
  bridge   - FITS/VOTable catalogue to sky model text
  export   - sky model text to FITS, VOTable, SQLite or YAML table
  fmt      - rewrite a sky model in canonical form
  inspect  - show the components of a sky model as a table`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: $"+config.EnvVar+" or ./skymodel.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json, logfmt)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newBridgeCmd(opts),
		newExportCmd(opts),
		newFmtCmd(opts),
		newInspectCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line and reports any error on stderr
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.Load(o.configPath)
	} else {
		o.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		o.cfg.General.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		o.cfg.General.LogFormat = o.logFormat
	}
	if o.verbose {
		o.cfg.General.LogLevel = "debug"
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultLoggerConfig("skymodel")
	logCfg.Level = o.cfg.General.LogLevel
	logCfg.Format = o.cfg.General.LogFormat
	logCfg.Output = cmd.ErrOrStderr()
	o.logger = logging.NewLogger(logCfg)
	return nil
}

// readModel parses the sky model file at path
func (o *rootOptions) readModel(path string) (*skymodel.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, skyerr.Wrap(err, "opening sky model").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	defer f.Close()

	model, err := skymodel.New(skymodel.Options{Logger: o.logger}).ParseModel(f)
	if err != nil {
		return nil, skyerr.Wrap(err, path)
	}
	o.logger.Debug("sky model loaded", "path", path, "sources", len(model.Sources), "warnings", len(model.Warnings))
	return model, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
