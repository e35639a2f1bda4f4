package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lachiem1/monthlens/internal/auth"
	"github.com/lachiem1/monthlens/internal/config"
	"github.com/lachiem1/monthlens/internal/dashboard"
	"github.com/lachiem1/monthlens/internal/logger"
	"github.com/lachiem1/monthlens/internal/period"
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/lachiem1/monthlens/internal/storage"
	"github.com/lachiem1/monthlens/internal/tui"
	"github.com/lachiem1/monthlens/internal/widget"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.ToContext(ctx, log.With(logger.FieldComponent, logger.ComponentApp))

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "auth":
		err = runAuth(args[1:])
	case "report":
		err = runReport(ctx, cfg, args[1:])
	case "add":
		err = runAdd(ctx, cfg, args[1:])
	case "":
		err = runTUI(ctx, cfg)
	default:
		err = fmt.Errorf("unknown command %q (want auth, report or add)", cmd)
	}
	if err != nil {
		logger.FromContext(ctx).Error("command failed", "command", cmd, logger.FieldError, err)
		fmt.Fprintf(os.Stderr, "monthlens: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.New(cfg.LogLevel, f), func() { _ = f.Close() }, nil
}

func runAuth(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: monthlens auth set|remove")
	}
	switch args[0] {
	case "set":
		fmt.Print("Enter API token: ")
		tok, err := readSecret()
		if err != nil {
			return err
		}
		fmt.Println()
		if strings.TrimSpace(tok) == "" {
			return errors.New("empty token")
		}
		if err := auth.SaveToken(tok); err != nil {
			return err
		}
		fmt.Println("Token saved to your system credential store.")
		return nil
	case "remove":
		if err := auth.RemoveToken(); err != nil {
			return err
		}
		fmt.Println("Token removed.")
		return nil
	default:
		return errors.New("usage: monthlens auth set|remove")
	}
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}

func newClient(cfg *config.Config) *records.Client {
	return records.New(cfg.APIURL, auth.Keyring{}, cfg.RequestTimeout)
}

func newWidgets() (*widget.Summary, *widget.Distribution, *widget.List) {
	return widget.NewSummary(), widget.NewDistribution(), widget.NewList()
}

// runReport prints one month without the interactive view. The local
// settings database is left untouched.
func runReport(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	month := fs.String("month", "", "month to report as YYYY-MM (default: this month)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := period.Current(time.Now())
	if *month != "" {
		parsed, err := period.Parse(*month)
		if err != nil {
			return err
		}
		p = parsed
	}

	client := newClient(cfg)
	summary, dist, list := newWidgets()
	page := dashboard.NewPage(client, p, []widget.Widget{summary, dist, list},
		dashboard.WithCategories(client),
		dashboard.WithWorkers(cfg.FetchWorkers),
		dashboard.WithLogger(logger.FromContext(ctx)),
	)
	defer page.Close()

	if catalog, err := page.LoadCatalog(ctx); err != nil {
		logger.FromContext(ctx).Warn("load categories failed", logger.FieldError, err)
	} else {
		page.ApplyCatalog(catalog)
	}
	page.Load(ctx, page.Start(ctx))

	return printReport(os.Stdout, summary.Output(), dist.Output(), list.Output())
}

func printReport(w io.Writer, s widget.SummaryOutput, d widget.DistributionOutput, l widget.ListOutput) error {
	if s.State == widget.Failed {
		return s.Err
	}
	fmt.Fprintf(w, "%s\n\n", s.Period.Label())
	if s.Summary != nil {
		fmt.Fprintf(w, "Total         %s\n", s.Summary.Total.StringFixed(2))
		fmt.Fprintf(w, "Transactions  %d\n", s.Summary.Count)
		if s.Summary.Average != nil {
			fmt.Fprintf(w, "Average       %s\n", s.Summary.Average.StringFixed(2))
		}
	}
	switch {
	case s.Comparison != nil:
		c := s.Comparison
		pct := "no prior spend"
		if c.PercentChange != nil {
			pct = c.PercentChange.StringFixed(1) + "%"
		}
		fmt.Fprintf(w, "vs %s   %s (%s)\n", s.Period.Prev().Label(), c.Delta.StringFixed(2), pct)
	case s.ComparisonState == widget.Failed:
		fmt.Fprintf(w, "vs %s   unavailable: %v\n", s.Period.Prev().Label(), s.ComparisonErr)
	}

	if d.State == widget.Loaded && len(d.Buckets) > 0 {
		fmt.Fprintln(w, "\nBy category")
		for _, b := range d.Buckets {
			fmt.Fprintf(w, "  %-20s %10s %6s%%\n", b.Label, b.Amount.StringFixed(2), b.Percentage.StringFixed(1))
		}
	}

	if l.State == widget.Loaded && l.Stats.Highest != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Highest  %s  %s\n", l.Stats.Highest.Amount.StringFixed(2), l.Stats.Highest.Description)
		fmt.Fprintf(w, "Lowest   %s  %s\n", l.Stats.Lowest.Amount.StringFixed(2), l.Stats.Lowest.Description)
		if mc := l.Stats.MostCommon; mc != nil {
			fmt.Fprintf(w, "Most common category  %s (%d)\n", mc.Label, mc.Count)
		}
	}
	return nil
}

func runAdd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	date := fs.String("date", "", "date as YYYY-MM-DD (default: today)")
	category := fs.String("category", "", "category id")
	desc := fs.String("desc", "", "description")
	recurring := fs.Bool("recurring", false, "mark as recurring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := decimal.NewFromString(strings.TrimSpace(*amount))
	if err != nil {
		return fmt.Errorf("amount %q is not a number", *amount)
	}
	now := time.Now()
	day := records.NewDate(now.Year(), now.Month(), now.Day())
	if *date != "" {
		if day, err = records.ParseDate(*date); err != nil {
			return err
		}
	}

	rec, err := newClient(cfg).Create(ctx, records.Draft{
		Amount:      amt,
		CategoryID:  records.ID(*category),
		Date:        day,
		Description: *desc,
		Recurring:   *recurring,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %s on %s (id %s).\n", rec.Amount.StringFixed(2), rec.Date, rec.ID)
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	db, dbCfg, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settings database: %w", err)
	}
	defer db.Close()
	logger.FromContext(ctx).Info("settings database ready", "path", dbCfg.Path, "mode", string(dbCfg.Mode))

	settings := storage.NewAppConfigRepo(db)
	history := storage.NewFetchStateRepo(db)
	client := newClient(cfg)
	summary, dist, list := newWidgets()

	page := dashboard.NewPage(client, period.Current(time.Now()), []widget.Widget{summary, dist, list},
		dashboard.WithSettings(settings),
		dashboard.WithDiagnostics(history),
		dashboard.WithCategories(client),
		dashboard.WithWorkers(cfg.FetchWorkers),
		dashboard.WithLogger(logger.FromContext(ctx)),
	)
	defer page.Close()

	model := tui.New(tui.Options{
		Context:      ctx,
		Page:         page,
		Summary:      summary,
		Distribution: dist,
		List:         list,
		Mutator:      client,
		History:      history,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
