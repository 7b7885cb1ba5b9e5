package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"ecasharvest/internal/browser"
	"ecasharvest/internal/calendar"
	"ecasharvest/internal/config"
	"ecasharvest/internal/harvest"
	"ecasharvest/internal/portal"
	"ecasharvest/internal/report"
	"ecasharvest/internal/run"
	"ecasharvest/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// run flags
	startDate     string
	endDate       string
	outDir        string
	selectorsPath string
	email         string
	headless      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecasharvest",
	Short: "EOIR/ECAS hearing-schedule and case-document harvester",
	Long: `ecasharvest logs into the EOIR respondent-access portal, walks the
hearing calendar for a date range, downloads every document of every
case heard in that range, classifies each document from its first page,
and writes an audit log of what it saved.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest all case documents for a hearing date range",
	Long: `Harvests documents for every case with a hearing in [--start, --end].

Example:
  ecasharvest run --start 3/1/2024 --end 3/31/2024 --out ./downloads`,
	RunE: runHarvest,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past harvest runs",
	RunE:  showHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	runCmd.Flags().StringVar(&startDate, "start", "", "range start, M/D/YYYY (required)")
	runCmd.Flags().StringVar(&endDate, "end", "", "range end, M/D/YYYY (required)")
	runCmd.Flags().StringVar(&outDir, "out", "downloads", "download and report directory")
	runCmd.Flags().StringVar(&selectorsPath, "selectors", "", "path to selector map JSON")
	runCmd.Flags().StringVar(&email, "email", "", "portal login email (prompted if empty)")
	runCmd.Flags().BoolVar(&headless, "headless", true, "run Chrome headless")
	_ = runCmd.MarkFlagRequired("start")
	_ = runCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.DefaultConfig(), nil
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if selectorsPath != "" {
		cfg.SelectorsPath = selectorsPath
	}
	if outDir != "" {
		cfg.Harvest.DownloadDir = outDir
	}
	cfg.Browser.Headless = headless
	cfg.Browser.DownloadDir = cfg.Harvest.DownloadDir

	rng, err := parseRange(startDate, endDate)
	if err != nil {
		return err
	}
	sel, err := config.LoadSelectors(cfg.SelectorsPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Harvest.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	user, password, err := credentials()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := browser.NewSession(cfg.Browser, logger)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Close()

	timing := portal.Timing{
		Wait:   cfg.Harvest.WaitTimeout(),
		Settle: cfg.Harvest.Settle(),
		Poll:   250 * time.Millisecond,
	}
	pc := portal.NewClient(session, sel, timing, logger)
	watcher := harvest.NewWatcher(cfg.Harvest.DownloadDir, cfg.Harvest.PollInterval(), logger)

	var hist *store.Store
	if cfg.HistoryDB != "" {
		hist, err = store.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	o := &run.Orchestrator{
		Portal: pc,
		Traversal: calendar.NewTraversal(session, sel, calendar.Options{
			PopupWait: cfg.Harvest.WaitTimeout(),
			Settle:    cfg.Harvest.Settle(),
			MaxPages:  cfg.Harvest.MaxPages(),
		}, logger),
		Harvester: harvest.NewHarvester(session, sel, pc, watcher,
			cfg.Harvest.DownloadDir, cfg.Harvest, logger),
		Report: report.NewWriter(cfg.Harvest.DownloadDir, logger),
		Store:  hist,
		Log:    logger,
	}

	sum, err := o.Execute(ctx, run.Params{
		PortalURL: cfg.PortalURL,
		Email:     user,
		Password:  password,
		Range:     rng,
	})
	if err != nil {
		return err
	}

	fmt.Println(report.Summarize(sum.Records))
	fmt.Printf("\n%d case(s), %d document(s) saved, %d row(s) skipped\n",
		len(sum.CaseIDs), len(sum.Records), sum.RowsSkipped)
	fmt.Printf("Audit log: %s\n", sum.ReportPath)
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("no history database configured (set history_db in config)")
	}
	s, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs()
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Run", "Started", "Range", "Cases", "Docs", "Skipped"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04"),
			r.RangeStart + " .. " + r.RangeEnd,
			r.Cases, r.Documents, r.Skipped,
		})
	}
	t.SetStyle(table.StyleLight)
	fmt.Println(t.Render())
	return nil
}

func parseRange(start, end string) (calendar.DateRange, error) {
	s, err := time.Parse("1/2/2006", start)
	if err != nil {
		return calendar.DateRange{}, fmt.Errorf("invalid --start %q: %w", start, err)
	}
	e, err := time.Parse("1/2/2006", end)
	if err != nil {
		return calendar.DateRange{}, fmt.Errorf("invalid --end %q: %w", end, err)
	}
	return calendar.NewDateRange(s, e)
}

// credentials resolves the portal login, prompting for anything not
// given on the command line. The password is never taken as a flag.
func credentials() (string, string, error) {
	user := email
	if user == "" {
		fmt.Print("Portal email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		user = strings.TrimSpace(line)
	}
	fmt.Print("Portal password: ")
	pwd, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return user, string(pwd), nil
}
