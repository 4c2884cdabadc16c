package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kubescan/internal/checks"
	"kubescan/internal/engine"
	"kubescan/internal/output"
	"kubescan/internal/policy"
	kube "kubescan/internal/providers/kubernetes"
	"kubescan/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kubescan",
		Short:         "Audit a Kubernetes cluster for security misconfigurations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newScanCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// scanOptions holds the flag values of the scan command.
type scanOptions struct {
	namespace   string
	contextName string
	reportFmt   string
	outputPath  string
	policyPath  string
	summaryOnly bool
	verbose     bool
}

func newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan cluster configuration and report security findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), kube.NewDefaultClientProvider(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Specific namespace to scan (default: all namespaces)")
	cmd.Flags().StringVar(&opts.contextName, "context", "", "Kubeconfig context to connect to (default: current context)")
	cmd.Flags().StringVarP(&opts.reportFmt, "report", "o", "console", "Output format: console or json")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "f", "", "Write the full JSON report to this file path")
	cmd.Flags().StringVar(&opts.policyPath, "policy", "", "Path to a YAML scan policy file")
	cmd.Flags().BoolVar(&opts.summaryOnly, "summary", false, "Print only the severity breakdown and posture level")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable progress logging")

	return cmd
}

// runScan is the scan command body: connect, collect, evaluate, apply
// policy, report. The provider is injected so tests can run the whole
// flow against a fake clientset.
func runScan(ctx context.Context, provider kube.ClientProvider, opts scanOptions, stdout io.Writer) error {
	logger := newLogger(opts.verbose)

	var policyCfg *policy.Config
	if opts.policyPath != "" {
		cfg, err := policy.Load(opts.policyPath)
		if err != nil {
			return err
		}
		policyCfg = cfg
	}

	clientset, info, err := provider.ClientsetForContext(opts.contextName)
	if err != nil {
		return fmt.Errorf("connect to cluster: %w", err)
	}
	logger.Info().
		Str("context", info.ContextName).
		Str("server", info.Server).
		Msg("connected to cluster")

	snapshot, namespaces, err := kube.CollectSnapshot(ctx, clientset, opts.namespace)
	if err != nil {
		return fmt.Errorf("collect cluster snapshot: %w", err)
	}
	pods, deployments := 0, 0
	for _, ns := range namespaces {
		pods += len(snapshot.Pods(ns))
		deployments += len(snapshot.Deployments(ns))
	}
	logger.Info().
		Int("namespaces", len(namespaces)).
		Int("pods", pods).
		Int("deployments", deployments).
		Msg("collected cluster snapshot")

	pipeline := engine.NewPipeline(checks.DefaultRegistry())
	findings, _, err := pipeline.Evaluate(snapshot, namespaces)
	if err != nil {
		return fmt.Errorf("evaluate snapshot: %w", err)
	}

	findings = policy.Apply(findings, policyCfg)
	sortFindings(findings)

	summary, err := engine.Summarize(findings)
	if err != nil {
		return fmt.Errorf("summarize findings: %w", err)
	}
	logger.Info().
		Int("findings", summary.TotalFindings).
		Str("posture", string(summary.PostureLevel)).
		Msg("evaluation complete")

	report := output.NewReport(info.ContextName, namespaces, findings, summary)
	if opts.outputPath != "" {
		if err := report.SaveJSON(opts.outputPath); err != nil {
			return err
		}
		logger.Info().Str("path", opts.outputPath).Msg("report written")
	}

	switch {
	case opts.summaryOnly:
		printSummary(stdout, summary)
	case opts.reportFmt == "json":
		if err := report.WriteJSON(stdout); err != nil {
			return err
		}
	default:
		output.WriteConsoleReport(stdout, findings, summary)
	}

	if policy.ShouldFail(findings, policyCfg) {
		return fmt.Errorf("findings at or above the configured fail_on_severity threshold")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// newLogger returns a console zerolog logger on stderr so report output on
// stdout stays machine-readable. Non-verbose runs log warnings and above.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
