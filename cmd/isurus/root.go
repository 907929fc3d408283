package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/datagazing/isurus/internal/version"
	"github.com/datagazing/isurus/pkg/config"
	"github.com/datagazing/isurus/pkg/errors"
	"github.com/datagazing/isurus/pkg/isurus"
	"github.com/datagazing/isurus/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		opts      runOptions
		logger    zerolog.Logger
	)

	rootCmd := &cobra.Command{
		Use:     "isurus [flags] [input]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Setup(verbosity)
			logger.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(logger)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load configuration")
				return err
			}

			// Flags win over the config file and environment.
			if !cmd.Flags().Changed("markdown") {
				opts.markdown = cfg.Markdown
			}
			if !cmd.Flags().Changed("save") {
				opts.save = cfg.Save
			}
			if !cmd.Flags().Changed("replace") {
				opts.replace = cfg.Replace
			}
			if !cmd.Flags().Changed("verbose") && cfg.Verbosity != verbosity {
				verbosity = cfg.Verbosity
				logger = logging.Setup(verbosity)
			}

			return run(opts, args, logger)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.Flags().StringVarP(&opts.input, "input", "i", "", MsgFlagInput)
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	rootCmd.Flags().BoolVarP(&opts.replace, "replace", "R", false, MsgFlagReplace)
	rootCmd.Flags().BoolVarP(&opts.markdown, "markdown", "M", false, MsgFlagMarkdown)
	rootCmd.Flags().BoolVarP(&opts.save, "save", "S", false, MsgFlagSave)
	rootCmd.Flags().StringArrayVarP(&opts.imports, "import", "I", nil, MsgFlagImport)
	rootCmd.Flags().StringArrayVarP(&opts.pre, "pre", "P", nil, MsgFlagPre)
	rootCmd.Flags().StringArrayVarP(&opts.post, "post", "E", nil, MsgFlagPost)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newModulesCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// runOptions collects everything the root command needs for one render.
type runOptions struct {
	input    string
	output   string
	replace  bool
	markdown bool
	save     bool
	imports  []string
	pre      []string
	post     []string
}

// run is the whole pipeline: resolve input, derive and guard the output
// path, assemble, render, write. Fatal conditions are logged here at
// error level and returned; main maps them to a non-zero exit.
func run(opts runOptions, args []string, logger zerolog.Logger) error {
	input := opts.input
	if input == "" && len(args) > 0 {
		input = args[len(args)-1]
	}
	logger.Debug().Str("input", input).Msg("Resolved input argument")
	if !isFile(input) {
		logger.Error().Msg(MsgErrNoInput)
		return errors.New(errors.ErrNoInput, MsgErrNoInput)
	}

	output := opts.output
	if output == "" {
		output = isurus.DeriveOutput(input)
		logger.Debug().Str("output", output).Msg("Derived output path")
	}
	if _, err := os.Stat(output); err == nil && !opts.replace {
		logger.Error().Str("path", output).Msg(MsgErrOutputExists)
		logger.Error().Msg(MsgErrReplaceHint)
		return errors.Newf(errors.ErrOutputExists, "output file exists: %s", output)
	}

	asm := isurus.New(input,
		isurus.WithMarkdown(opts.markdown),
		isurus.WithSave(opts.save),
		isurus.WithLogger(logging.Component(logger, "assembler")),
	)

	for _, declaration := range opts.imports {
		if err := asm.AddImport(declaration); err != nil {
			// Unparseable declarations are dropped; a missing module is
			// fatal before any rendering is attempted.
			if errors.IsErrorCode(err, errors.ErrImportUnparseable) {
				continue
			}
			return err
		}
	}
	for _, fragment := range opts.pre {
		asm.AddPre(fragment)
	}
	for _, fragment := range opts.post {
		asm.AddPost(fragment)
	}

	return asm.RenderFile(output)
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "isurus %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
			return nil
		},
	}
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: MsgModulesShort,
		Long:  MsgModulesLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range isurus.DefaultRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
