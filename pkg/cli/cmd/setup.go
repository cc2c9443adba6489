package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rzbill/ultranode/pkg/cli/format"
	"github.com/rzbill/ultranode/pkg/log"
	"github.com/rzbill/ultranode/pkg/setup"
	"github.com/spf13/cobra"
)

var (
	setupAuto      bool
	setupTeam      string
	setupDomain    string
	setupHostIP    string
	setupOutputDir string
	setupRetries   int
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate secrets and configuration for a node",
	Long: `Generate every secret and configuration file a node needs.

Asks for a team name, the root domain and the host address, then writes:
  .env                                  environment for every service
  docker-compose.override.private.yml   ports, restart limits and integrations
  traefik_<team>.yml                    reverse-proxy routes for each service

Every run generates fresh secrets and overwrites existing files.

Examples:
  # Interactive
  ultranode setup

  # Offer the host name and first IPv4 address as defaults
  ultranode setup --auto

  # Fully scripted
  ultranode setup --team alpha --domain example.com --host-ip 10.0.0.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&setupAuto, "auto", false, "offer detected team name and host address as defaults")
	setupCmd.Flags().StringVar(&setupTeam, "team", "", "team name (skips the prompt)")
	setupCmd.Flags().StringVar(&setupDomain, "domain", "", "root domain (skips the prompt)")
	setupCmd.Flags().StringVar(&setupHostIP, "host-ip", "", "host address the proxy routes to (skips the prompt)")
	setupCmd.Flags().StringVarP(&setupOutputDir, "output-dir", "o", "", "directory the files are written to (default from config, \".\")")
	setupCmd.Flags().IntVar(&setupRetries, "restart-retries", 0, "restart attempts before a service stays down (default from config, 2)")
}

func runSetup(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	outputDir := appConfig.Setup.OutputDir
	if cmd.Flags().Changed("output-dir") {
		outputDir = setupOutputDir
	}
	retries := appConfig.Setup.RestartRetries
	if cmd.Flags().Changed("restart-retries") {
		retries = setupRetries
	}
	if retries < 1 {
		return fmt.Errorf("restart retries must be at least 1, got %d", retries)
	}

	printSetupBanner(out, retries)

	opts := setup.Options{
		Preset:    setup.Inputs{Team: setupTeam, Domain: setupDomain, HostIP: setupHostIP},
		Auto:      setupAuto,
		OutputDir: outputDir,
		Render: setup.RenderOptions{
			CertResolver:   appConfig.Setup.CertResolver,
			RestartRetries: retries,
		},
	}

	wizard := setup.NewWizard(setup.NewPrompter(in, out), logger)
	first := true
	summary, err := wizard.Run(opts, func(path string) {
		if first {
			fmt.Fprintln(out)
			first = false
		}
		fmt.Fprintln(out, artifactCreatedLine(filepath.Base(path)))
	})
	if err != nil {
		return err
	}

	logger.Info("Node configuration written",
		log.Str("team", summary.Inputs.Team),
		log.Bool("auto", setupAuto),
		log.Int("files", len(summary.Files)))
	return printSetupSummary(out, summary, retries)
}

func printSetupBanner(out io.Writer, retries int) {
	line := strings.Repeat("=", 57)
	fmt.Fprintf(out, "\n%s\n", line)
	fmt.Fprintln(out, format.Header("   ULTRA-NODE SETUP: DEEP OPENWEBUI INTEGRATION"))
	fmt.Fprintf(out, "   (With 'On-Failure:%d' Restart Limits)\n", retries)
	fmt.Fprintf(out, "%s\n\n", line)
}

func artifactCreatedLine(name string) string {
	switch name {
	case setup.EnvFileName:
		return fmt.Sprintf("-> %s file created (All Values Filled).", name)
	case setup.ComposeFileName:
		return fmt.Sprintf("-> %s created (With Restart Limits).", name)
	default:
		return fmt.Sprintf("-> %s created.", name)
	}
}

func printSetupSummary(out io.Writer, summary *setup.Summary, retries int) error {
	line := strings.Repeat("=", 57)
	fmt.Fprintf(out, "\n%s\n", line)
	fmt.Fprintln(out, format.Header("   ULTRA-NODE DEPLOYMENT READY"))
	fmt.Fprintln(out, line)

	rows := make([][2]string, 0, 9)
	for _, r := range summary.Hosts.Routes() {
		rows = append(rows, [2]string{r.Name, fmt.Sprintf("https://%s -> %s:%d", r.Host, summary.Inputs.HostIP, r.Port)})
	}
	rows = append(rows, [2]string{"ollama", summary.Hosts.Ollama})
	if err := format.KeyValueTable(out, [2]string{"SERVICE", "ROUTE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(out, "Files written:")
	for _, f := range summary.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "1. All Database Ports are OPEN on this Host IP.")
	fmt.Fprintf(out, "2. All Services set to 'restart: on-failure:%d' (No infinite loops).\n", retries)
	fmt.Fprintln(out, "3. Deep Integration Enabled (WebUI -> Qdrant/Ollama/SearXNG).")
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "Run: python start_services.py --profile cpu --environment private")
	return nil
}
