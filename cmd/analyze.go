package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"propertytax/internal/analysis"
	"propertytax/internal/assessment"
	"propertytax/internal/config"
	"propertytax/internal/export"
	"propertytax/internal/metrics"
	"propertytax/internal/notify"
	"propertytax/internal/pin"
	"propertytax/internal/report"
	"propertytax/internal/savedpins"
)

// Analyze flags
var (
	overrideFlag   string
	useSaved       bool
	exportFormat   string
	emailReport    bool
	interactive    bool
	incomeApproach bool
	noTaxes        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [PIN...]",
	Short: "Estimate taxes for one or more PINs",
	Long: `Looks up each PIN, selects the assessment value, resolves the neighborhood
tax rate and prints the estimate with any data-quality warnings.

PINs may be given as arguments (comma separated or not), read from stdin, or
taken from the saved PIN list with --saved. Dashes and spaces are ignored.

Examples:
  propertytax analyze 12-345-678-901-234
  propertytax analyze --override certified --export csv 12345678901234,98765432109876
  cat pins.txt | propertytax analyze --export json --email`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&overrideFlag, "override", "", "Assessment source: auto, board, certified or mailed (default from config)")
	analyzeCmd.Flags().BoolVar(&useSaved, "saved", false, "Include the saved PIN list")
	analyzeCmd.Flags().StringVar(&exportFormat, "export", "", "Write a job packet: csv or json")
	analyzeCmd.Flags().BoolVar(&emailReport, "email", false, "Email the HTML report (and packet, if exported)")
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse results with the arrow keys")
	analyzeCmd.Flags().BoolVar(&incomeApproach, "income-approach", false, "Flag income approach analysis in the report")
	analyzeCmd.Flags().BoolVar(&noTaxes, "no-taxes", false, "Do not flag current tax analysis in the session")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	raw := overrideFlag
	if !cmd.Flags().Changed("override") {
		raw = cfg.Analysis.Override
	}
	override, err := assessment.ParseOverride(raw)
	if err != nil {
		return err
	}
	var format export.Format
	if exportFormat != "" {
		if format, err = export.ParseFormat(exportFormat); err != nil {
			return &usageError{err: err}
		}
	}
	var email notify.EmailConfig
	if emailReport {
		if email = cfg.EmailConfig(); !email.Enabled {
			return fmt.Errorf("%w: --email needs smtp.server and smtp.to", config.ErrInvalidConfig)
		}
	}

	pins, err := collectPINs(cmd, args)
	if err != nil {
		return err
	}

	props, table, err := loadSources(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	analyzer := analysis.NewAnalyzer(props, table,
		analysis.WithWorkers(cfg.Analysis.Workers),
		analysis.WithLogger(logger),
		analysis.WithObserver(m))

	session := analysis.NewSession(time.Now(), analysis.Options{
		Override:            override,
		AnalyzeCurrentTaxes: cfg.Analysis.AnalyzeCurrentTaxes && !noTaxes,
		IncomeApproach:      cfg.Analysis.IncomeApproach || incomeApproach,
	})
	results, err := analyzer.Run(pins, override)
	if err != nil {
		return err
	}

	if interactive && stdinIsTerminal() {
		err = browseResults(session, results)
	} else {
		err = report.NewText(out).Write(session, results)
	}
	if err != nil {
		return err
	}

	var packets []export.Packet
	if format != "" {
		p, dest, err := exportPacket(ctx, session, results, format)
		if err != nil {
			return err
		}
		packets = append(packets, p)
		fmt.Fprintf(out, "Job packet written to %s\n", dest)
	}

	if emailReport {
		doc, err := report.NewHTMLRenderer().Render(session, results)
		if err != nil {
			return err
		}
		if err := notify.NewMailer(email, logger).Send(doc, packets...); err != nil {
			return fmt.Errorf("failed to email report: %w", err)
		}
		fmt.Fprintf(out, "Report emailed to %s\n", strings.Join(email.ToEmails, ", "))
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}
	return nil
}

// collectPINs gathers PINs from args, the saved list and, when neither gives
// any, stdin. Invalid entries are reported and skipped; it fails only when no
// valid PIN remains.
func collectPINs(cmd *cobra.Command, args []string) ([]string, error) {
	var parts []string
	parts = append(parts, args...)
	if useSaved {
		saved, err := savedpins.New(cfg.SavedPINs).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load saved PINs: %w", err)
		}
		if len(saved) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No saved PINs yet. Use 'propertytax pins add' to save some.")
		}
		parts = append(parts, saved...)
	}
	if len(parts) == 0 {
		in := cmd.InOrStdin()
		prompt := in == os.Stdin && stdinIsTerminal()
		if prompt {
			fmt.Fprint(cmd.ErrOrStderr(), "Enter PINs (comma or newline separated, blank line to finish): ")
		}
		input, err := readPINInput(in, prompt)
		if err != nil {
			return nil, err
		}
		parts = append(parts, input)
	}

	pins, errs := pin.ParseList(strings.Join(parts, "\n"))
	for _, err := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping %v\n", err)
	}
	if len(pins) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, usagef("no PINs given")
	}
	return pins, nil
}

// readPINInput reads all of r. On a terminal a blank line ends the input.
func readPINInput(r io.Reader, stopAtBlank bool) (string, error) {
	if !stopAtBlank {
		data, err := io.ReadAll(r)
		return string(data), err
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), scanner.Err()
}

// exportPacket encodes the results and stores them in S3 when a bucket is
// configured, otherwise in the export directory.
func exportPacket(ctx context.Context, s analysis.Session, results []analysis.Result, f export.Format) (export.Packet, string, error) {
	p, err := export.Build(s, results, f)
	if err != nil {
		return export.Packet{}, "", err
	}

	var sink export.Sink = export.FileSink{Dir: cfg.Export.Dir}
	if cfg.Export.S3.Bucket != "" {
		s3Sink, err := export.NewS3Sink(ctx, cfg.S3Config())
		if err != nil {
			return export.Packet{}, "", err
		}
		sink = s3Sink
	}

	dest, err := sink.Put(ctx, p)
	if err != nil {
		return export.Packet{}, "", fmt.Errorf("failed to export job packet: %w", err)
	}
	logger.Info("job packet exported", zap.String("dest", dest), zap.Int("bytes", len(p.Data)))
	return p, dest, nil
}
