package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/rzbill/ultranode/pkg/cli/format"
	"github.com/rzbill/ultranode/pkg/log"
	"github.com/rzbill/ultranode/pkg/playbook"
	"github.com/spf13/cobra"
)

var (
	lintFormat          string
	lintPattern         string
	lintExcludePrefix   string
	lintMemoryLimit     int
	lintNormalizeMemory bool
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [directory]",
	Short: "Validate deployment playbooks",
	Long: `Lint the deployment playbooks in a directory without running them.

Every *.yml file directly in the directory is checked, except inventory files.
Each file goes through seven independent checks: YAML syntax, container image
references, host port conflicts, template variables, required collections,
memory allocation and the embedded compose document.

Issues fail a file; warnings are reported but do not. The command exits
non-zero when any file fails or no playbook is found.

Examples:
  # Lint the playbooks in the current directory
  ultranode lint

  # Lint another directory
  ultranode lint ./ansible

  # Output in JSON format for CI/CD integration
  ultranode lint --format json ./ansible`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runLint(cmd, dir, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFormat, "format", "", "Output format (text, json)")
	lintCmd.Flags().StringVar(&lintPattern, "pattern", "", "glob selecting playbook files (default \"*.yml\")")
	lintCmd.Flags().StringVar(&lintExcludePrefix, "exclude-prefix", "", "skip files whose name starts with this prefix (default \"inventory\")")
	lintCmd.Flags().IntVar(&lintMemoryLimit, "memory-limit", 0, "warn when summed memory exceeds this many GB (default 64)")
	lintCmd.Flags().BoolVar(&lintNormalizeMemory, "normalize-memory", false, "convert M values to G before summing memory")
}

// lintSettings merges config values with flags set on the command line.
func lintSettings(cmd *cobra.Command) (outputFormat, pattern, exclude string, opts playbook.Options, err error) {
	c := appConfig.Lint
	outputFormat, pattern, exclude = c.Format, c.Pattern, c.ExcludePrefix
	opts = playbook.Options{MemoryLimit: c.MemoryLimit, NormalizeMemory: c.NormalizeMemory}

	flags := cmd.Flags()
	if flags.Changed("format") {
		outputFormat = lintFormat
	}
	if flags.Changed("pattern") {
		pattern = lintPattern
	}
	if flags.Changed("exclude-prefix") {
		exclude = lintExcludePrefix
	}
	if flags.Changed("memory-limit") {
		opts.MemoryLimit = lintMemoryLimit
	}
	if flags.Changed("normalize-memory") {
		opts.NormalizeMemory = lintNormalizeMemory
	}

	if outputFormat != "text" && outputFormat != "json" {
		err = fmt.Errorf("unsupported output format %q (want text or json)", outputFormat)
	}
	return
}

func runLint(cmd *cobra.Command, dir string, out io.Writer) error {
	outputFormat, pattern, exclude, opts, err := lintSettings(cmd)
	if err != nil {
		return err
	}

	files, err := playbook.Discover(dir, pattern, exclude)
	if err != nil {
		return err
	}
	logger.Debug("Discovered playbooks", log.Str("dir", dir), log.Int("count", len(files)))

	start := time.Now()
	printer := format.NewReportPrinter(out)
	validator := playbook.NewValidator(opts, logger)

	if outputFormat == "json" {
		report := validator.ValidateAll(files)
		logLintFinished(report, start)
		if err := printer.JSON(report); err != nil {
			return err
		}
		if !report.OK() {
			return errSilentExit
		}
		return nil
	}

	if len(files) == 0 {
		fmt.Fprintln(out, format.Error("No playbooks found in directory"))
		return errSilentExit
	}

	printer.Banner(len(files))
	report := &playbook.Report{}
	for _, f := range files {
		res := validator.Validate(f)
		printer.Result(res)
		report.Add(res)
	}
	logLintFinished(report, start)
	if err := printer.Summary(report); err != nil {
		return err
	}
	if !report.OK() {
		return errSilentExit
	}
	return nil
}

func logLintFinished(report *playbook.Report, start time.Time) {
	logger.Info("Lint finished",
		log.Int("files", len(report.Results)),
		log.Str("result", report.String()),
		log.Duration("elapsed", time.Since(start)))
}
