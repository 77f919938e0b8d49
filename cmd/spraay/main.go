package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/plagtech/spraay/internal/adapters/sidecar"
	"github.com/plagtech/spraay/internal/batch"
	"github.com/plagtech/spraay/internal/cliconfig"
	"github.com/plagtech/spraay/internal/domain"
	"github.com/plagtech/spraay/internal/receipts"
	"github.com/plagtech/spraay/internal/recipients"
)

const helpBanner = `
  █████████  ███████████  ███████████     █████████     █████████   █████ █████
 ███░░░░░███░░███░░░░░███░░███░░░░░███   ███░░░░░███   ███░░░░░███ ░░███ ░░███
░███    ░░░  ░███    ░███ ░███    ░███  ░███    ░███  ░███    ░███  ░░███ ███
░░█████████  ░██████████  ░██████████   ░███████████  ░███████████   ░░█████
 ░░░░░░░░███ ░███░░░░░░   ░███░░░░░███  ░███░░░░░███  ░███░░░░░███    ░░███
 ███    ░███ ░███         ░███    ░███  ░███    ░███  ░███    ░███     ░███
░░█████████  █████        █████   █████ █████   █████ █████   █████    █████
 ░░░░░░░░░  ░░░░░        ░░░░░   ░░░░░ ░░░░░   ░░░░░ ░░░░░   ░░░░░    ░░░░░
`

const helpDescription = `
Batch TAO transfers to many recipients in one transaction.

Highlights:
  - Reads recipient sheets in CSV, TSV or JSON and validates every entry.
  - Splits large runs into chain-sized batch transactions automatically.
  - Estimates network and service fees up front, before anything is signed.
  - Signing stays in the wallet sidecar; spraay never touches key material.

Config file: $HOME/.spraay/config.toml (flags > SPRAAY_* env > file)
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  spraay validate --file payouts.csv
  spraay estimate --file payouts.csv --wallet payouts
  spraay transfer --file payouts.csv --wallet payouts --yes
  spraay template --out payouts.csv
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by all subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	verbose bool
	log     zerolog.Logger
	policy  batch.Policy
}

func main() {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		policy: batch.DefaultPolicy(),
		log:    cliconfig.Logger(false),
	}

	root := &cobra.Command{
		Use:     "spraay",
		Short:   "Batch TAO transfers to many recipients in one transaction",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.spraay/config.toml)")
	pf.StringVar(&c.cfg.SidecarURL, "sidecar-url", c.cfg.SidecarURL, "websocket endpoint of the wallet sidecar")
	pf.StringVar(&c.cfg.Network, "network", c.cfg.Network, "chain network (finney, test, local)")
	pf.StringVar(&c.cfg.Wallet, "wallet", c.cfg.Wallet, "name of the sending wallet known to the sidecar")
	pf.DurationVar(&c.cfg.CallTimeout, "timeout", c.cfg.CallTimeout, "timeout per sidecar round-trip")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.transferCmd(),
		c.estimateCmd(),
		c.validateCmd(),
		c.templateCmd(),
		c.historyCmd(),
	)

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("spraay")
		os.Exit(1)
	}
}

// loadConfig layers file and environment config under any explicitly set
// flags, then validates the result.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	c.log = cliconfig.Logger(c.verbose)

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	return c.cfg.Validate()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// dial connects to the sidecar and resolves the configured wallet.
func (c *cli) dial(ctx context.Context) (*sidecar.Client, domain.Wallet, error) {
	if c.cfg.Wallet == "" {
		return nil, domain.Wallet{}, fmt.Errorf("no wallet configured: set --wallet, SPRAAY_WALLET or the config file")
	}

	client, err := sidecar.Dial(ctx, c.cfg.SidecarURL, c.cfg.Network, c.cfg.CallTimeout, c.log)
	if err != nil {
		return nil, domain.Wallet{}, err
	}

	addr, err := client.WalletAddress(ctx, c.cfg.Wallet)
	if err != nil {
		client.Close()
		return nil, domain.Wallet{}, fmt.Errorf("resolve wallet %q: %w", c.cfg.Wallet, err)
	}

	return client, domain.Wallet{Name: c.cfg.Wallet, Address: addr}, nil
}

// loadSheet parses and validates a recipient sheet, printing validation
// errors. Returns the recipients only when the sheet is clean.
func (c *cli) loadSheet(path string) ([]domain.Recipient, error) {
	rs, err := recipients.ParseFile(path)
	if err != nil {
		return nil, err
	}

	if ok, errs := recipients.Validate(rs, c.policy.MinTransfer); !ok {
		fmt.Printf("%s: %d validation errors\n", path, len(errs))
		for _, e := range errs {
			fmt.Printf("  - %s\n", e)
		}
		return nil, fmt.Errorf("%w: %d errors in %s", domain.ErrValidation, len(errs), path)
	}
	return rs, nil
}

// printStats renders a short preview of the sheet before any chain work.
func printStats(rs []domain.Recipient, chunkCount int) {
	if len(rs) == 0 {
		return
	}

	total := domain.TotalAmount(rs)
	min, max := rs[0].Amount, rs[0].Amount
	for _, r := range rs[1:] {
		if r.Amount.Cmp(min) < 0 {
			min = r.Amount
		}
		if r.Amount.Cmp(max) > 0 {
			max = r.Amount
		}
	}
	avg := domain.NewAmount(total.Rao() / int64(len(rs)))

	fmt.Printf("Recipients: %d (in %d batch transactions)\n", len(rs), chunkCount)
	fmt.Printf("Total: %s TAO, avg %s, min %s, max %s\n",
		total.Format(4), avg.Format(4), min.Format(4), max.Format(4))

	preview := rs
	if len(preview) > 5 {
		preview = preview[:5]
	}
	for i, r := range preview {
		fmt.Printf("  %d. %s  %s TAO\n", i+1, r.DisplayName(), r.Amount.Format(4))
	}
	if len(rs) > 5 {
		fmt.Printf("  ... and %d more\n", len(rs)-5)
	}
}

// confirm prompts on stdin unless the run was pre-approved.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (c *cli) transferCmd() *cobra.Command {
	var (
		file       string
		dryRun     bool
		yes        bool
		bestEffort bool
		allowDeath bool
		finalize   bool
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send TAO to every recipient in a sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			rs, err := c.loadSheet(file)
			if err != nil {
				return err
			}
			printStats(rs, len(c.policy.Chunks(rs)))

			client, wallet, err := c.dial(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			executor := batch.NewExecutor(client, c.policy, c.log)

			est, err := executor.Estimate(ctx, wallet, rs)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(est.Summary())

			if !est.BalanceSufficient {
				return fmt.Errorf("%w: wallet %s needs %s TAO, has %s TAO",
					domain.ErrInsufficientBalance, wallet.Name,
					est.TotalCost.Format(4), est.CurrentBalance.Format(4))
			}

			if dryRun {
				fmt.Println("\nDry run: nothing submitted.")
				return nil
			}

			if !yes && !confirm(fmt.Sprintf("\nSend %s TAO to %d recipients from wallet %q?",
				est.TotalAmount.Format(4), len(rs), wallet.Name)) {
				fmt.Println("Aborted.")
				return nil
			}

			opts := batch.DefaultExecuteOptions()
			opts.KeepAlive = !allowDeath
			opts.WaitForFinalization = finalize
			if bestEffort {
				opts.Mode = domain.BatchBestEffort
			}

			started := time.Now()
			results, err := executor.Execute(ctx, wallet, rs, opts)
			if err != nil {
				return err
			}

			if dir := receipts.DefaultDir(); dir != "" {
				rec := receipts.FromResults(c.cfg.Network, wallet.Name, opts.Mode, started, results)
				if path, err := receipts.NewFileRepository(dir).Save(rec); err != nil {
					c.log.Warn().Err(err).Msg("failed to write receipt")
				} else {
					c.log.Info().Str("path", path).Msg("receipt written")
				}
			}

			for _, r := range results {
				fmt.Println()
				fmt.Println(r.Summary())
			}
			fmt.Println()
			fmt.Println(runSummary(results))

			if !domain.AllSucceeded(results) {
				return fmt.Errorf("run finished with failures")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "recipient sheet (csv, tsv or json)")
	cmd.MarkFlagRequired("file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and estimate, submit nothing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "continue past failing transfers within a batch")
	cmd.Flags().BoolVar(&allowDeath, "allow-death", false, "permit transfers that may reap the sending account")
	cmd.Flags().BoolVar(&finalize, "finalize", false, "wait for finalization instead of inclusion")
	return cmd
}

// runSummary aggregates per-chunk results into one closing report.
func runSummary(results []domain.BatchResult) string {
	var (
		succeeded, failed int
		sent              domain.Amount
		recipientsOK      int
		networkFee        domain.Amount
		serviceFee        domain.Amount
	)
	for _, r := range results {
		if r.Success {
			succeeded++
			sent = sent.Add(r.TotalAmount)
			recipientsOK += r.RecipientCount
			networkFee = networkFee.Add(r.NetworkFee)
			serviceFee = serviceFee.Add(r.ServiceFee)
		} else {
			failed++
		}
	}

	lines := []string{
		"=== Run Summary ===",
		fmt.Sprintf("Batches: %d succeeded, %d failed", succeeded, failed),
		fmt.Sprintf("Sent: %s TAO to %d recipients", sent.Format(4), recipientsOK),
		fmt.Sprintf("Network fee: %s TAO", networkFee.Format(6)),
	}
	if serviceFee.IsPositive() {
		lines = append(lines, fmt.Sprintf("Service fee: %s TAO", serviceFee.Format(6)))
	}
	return strings.Join(lines, "\n")
}

func (c *cli) estimateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Project the fees and total cost of a run without submitting",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			rs, err := c.loadSheet(file)
			if err != nil {
				return err
			}

			client, wallet, err := c.dial(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			est, err := batch.NewExecutor(client, c.policy, c.log).Estimate(ctx, wallet, rs)
			if err != nil {
				return err
			}
			fmt.Println(est.Summary())

			if !est.BalanceSufficient {
				return domain.ErrInsufficientBalance
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "recipient sheet (csv, tsv or json)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	var (
		file  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint a recipient sheet without touching the chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			lint := func() bool {
				rs, err := recipients.ParseFile(file)
				if err != nil {
					fmt.Printf("%s: %v\n", file, err)
					return false
				}
				if ok, errs := recipients.Validate(rs, c.policy.MinTransfer); !ok {
					fmt.Printf("%s: %d validation errors\n", file, len(errs))
					for _, e := range errs {
						fmt.Printf("  - %s\n", e)
					}
					return false
				}
				fmt.Printf("%s: OK\n", file)
				printStats(rs, len(c.policy.Chunks(rs)))
				return true
			}

			if !watch {
				if !lint() {
					return domain.ErrValidation
				}
				return nil
			}

			ctx, cancel := signalContext()
			defer cancel()

			lint()
			fmt.Println("\nWatching for changes (ctrl-c to stop)...")

			w := recipients.NewWatcher(file, func() {
				fmt.Println()
				lint()
			})
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "recipient sheet (csv, tsv or json)")
	cmd.MarkFlagRequired("file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-lint whenever the sheet changes")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show receipts of recent transfer runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := receipts.DefaultDir()
			if dir == "" {
				return fmt.Errorf("cannot locate receipt directory")
			}

			repo := receipts.NewFileRepository(dir)
			paths, err := repo.List(limit)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Println("No transfer runs recorded yet.")
				return nil
			}

			for _, path := range paths {
				rec, err := repo.Load(path)
				if err != nil {
					c.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable receipt")
					continue
				}
				status := "ok"
				if !rec.Succeeded() {
					status = fmt.Sprintf("%d failed", rec.Failed)
				}
				fmt.Printf("%s  %-8s %-10s %4d recipients  %12s TAO  [%s]\n",
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					rec.Network, rec.Wallet, rec.Recipients, rec.Sent().Format(4), status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

func (c *cli) templateCmd() *cobra.Command {
	var (
		out    string
		format string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a sample recipient sheet to get started",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := recipients.WriteTemplate(out, format, count); err != nil {
				return err
			}
			fmt.Printf("Wrote %s template with %d sample recipients to %s\n", format, count, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "payouts.csv", "output path")
	cmd.Flags().StringVar(&format, "format", "csv", "template format (csv or json)")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of sample rows")
	return cmd
}
