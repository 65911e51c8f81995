// Package publisher runs the scheduled update-and-publish workflow: execute
// the analyzer, commit the refreshed stocks_data.json, push it, and archive
// the snapshot for history queries.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gcdrrtrade/ai-dividends/internal/config"
	"github.com/gcdrrtrade/ai-dividends/internal/domain"
	"github.com/gcdrrtrade/ai-dividends/internal/snapshot"
	"github.com/gcdrrtrade/ai-dividends/internal/store"
)

// ErrLocked is returned when another publisher run holds the lock file.
var ErrLocked = errors.New("another publisher run is in progress")

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited %d: %s", e.Code, e.Output)
}

// Runner executes a command in dir and returns its combined output. Non-zero
// exits surface as *ExitError. Injected so tests can stub git and the
// analyzer.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return out, &ExitError{Code: ee.ExitCode(), Output: string(out)}
	}
	return out, err
}

// TradingCalendar answers whether a given day is a US trading day.
type TradingCalendar interface {
	IsTradingDay(t time.Time) (bool, error)
}

// Publisher drives one publish cycle.
type Publisher struct {
	cfg     config.PublisherConfig
	cal     TradingCalendar    // optional
	history store.HistoryStore // optional
	archive store.Archiver     // optional
	log     *slog.Logger

	run Runner
	now func() time.Time
}

// New creates a Publisher. cal, history, and archive may be nil; the
// corresponding steps are skipped.
func New(cfg config.PublisherConfig, cal TradingCalendar, history store.HistoryStore, archive store.Archiver, log *slog.Logger) *Publisher {
	return &Publisher{
		cfg:     cfg,
		cal:     cal,
		history: history,
		archive: archive,
		log:     log,
		run:     execRunner,
		now:     time.Now,
	}
}

// Run executes one publish cycle:
//
//  1. acquire the lock file, refusing to overlap a running cycle
//  2. optionally skip non-trading days
//  3. run the analyzer command in the work directory
//  4. validate the refreshed output document
//  5. if the output changed, commit and push it
//  6. archive the snapshot for history queries
//
// Every git step is checked; a failed push leaves the commit local and
// surfaces the error rather than silently reporting success.
func (p *Publisher) Run(ctx context.Context) error {
	if _, err := os.Stat(p.cfg.WorkDir); err != nil {
		return fmt.Errorf("work directory %s: %w", p.cfg.WorkDir, err)
	}

	unlock, err := p.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	now := p.now()
	if p.cfg.TradingDaysOnly && p.cal != nil {
		trading, err := p.cal.IsTradingDay(now)
		if err != nil {
			// Calendar trouble should not block the publish.
			p.log.Warn("trading calendar unavailable, continuing", "error", err)
		} else if !trading {
			p.log.Info("not a trading day, skipping publish", "date", now.Format("2006-01-02"))
			return nil
		}
	}

	p.log.Info("running analyzer", "cmd", p.cfg.AnalyzerCmd)
	if len(p.cfg.AnalyzerCmd) == 0 {
		return errors.New("no analyzer command configured")
	}
	if out, err := p.run(ctx, p.cfg.WorkDir, p.cfg.AnalyzerCmd[0], p.cfg.AnalyzerCmd[1:]...); err != nil {
		return fmt.Errorf("analyzer failed: %w (output: %s)", err, out)
	}

	snap, err := p.loadOutput()
	if err != nil {
		return err
	}
	p.log.Info("analyzer output validated", "records", len(snap.Records))

	changed, err := p.outputChanged(ctx)
	if err != nil {
		return err
	}
	if !changed {
		p.log.Info("no changes to publish")
	} else {
		if err := p.commitAndPush(ctx, now); err != nil {
			return err
		}
		p.log.Info("published", "file", p.cfg.OutputFile, "remote", p.cfg.Remote, "branch", p.cfg.Branch)
	}

	if p.cfg.ArchiveSnapshots {
		if err := p.archiveSnapshot(ctx, now, snap); err != nil {
			return err
		}
	}
	return nil
}

// acquireLock creates the lock file exclusively. A leftover lock from a
// crashed run has to be removed by hand; overlapping timer runs are the
// common case and must fail fast.
func (p *Publisher) acquireLock() (func(), error) {
	path := p.cfg.LockFile
	if path == "" {
		path = filepath.Join(p.cfg.WorkDir, ".publish.lock")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	fmt.Fprintf(f, "pid %d started %s\n", os.Getpid(), p.now().Format(time.RFC3339))
	f.Close()

	return func() {
		if err := os.Remove(path); err != nil {
			p.log.Warn("removing lock file", "path", path, "error", err)
		}
	}, nil
}

// loadOutput parses the analyzer's output file so a run that produced a
// corrupt or empty document is never committed.
func (p *Publisher) loadOutput() (*domain.Snapshot, error) {
	path := filepath.Join(p.cfg.WorkDir, p.cfg.OutputFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analyzer output: %w", err)
	}
	snap, err := snapshot.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("analyzer output invalid: %w", err)
	}
	if len(snap.Records) == 0 {
		return nil, errors.New("analyzer output contains no valid records")
	}
	return snap, nil
}

// outputChanged asks git whether the output file differs from HEAD.
func (p *Publisher) outputChanged(ctx context.Context) (bool, error) {
	_, err := p.run(ctx, p.cfg.WorkDir, "git", "diff", "--quiet", "--", p.cfg.OutputFile)
	if err == nil {
		return false, nil
	}
	var ee *ExitError
	if errors.As(err, &ee) && ee.Code == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff: %w", err)
}

func (p *Publisher) commitAndPush(ctx context.Context, now time.Time) error {
	msg := fmt.Sprintf("Update stock data %s", now.Format("2006-01-02 15:04"))

	steps := [][]string{
		{"git", "add", p.cfg.OutputFile},
		{"git", "commit", "-m", msg},
		{"git", "push", p.cfg.Remote, p.cfg.Branch},
	}
	for _, step := range steps {
		if out, err := p.run(ctx, p.cfg.WorkDir, step[0], step[1:]...); err != nil {
			return fmt.Errorf("%s %s: %w (output: %s)", step[0], step[1], err, out)
		}
	}
	return nil
}

func (p *Publisher) archiveSnapshot(ctx context.Context, now time.Time, snap *domain.Snapshot) error {
	date := now.Format("2006-01-02")
	if p.archive != nil {
		if err := p.archive.WriteDate(date, snap.Records); err != nil {
			return fmt.Errorf("archiving snapshot: %w", err)
		}
	}
	if p.history != nil {
		if err := p.history.RecordSnapshot(ctx, date, snap.Records); err != nil {
			return fmt.Errorf("recording history: %w", err)
		}
	}
	return nil
}
