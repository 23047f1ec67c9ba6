// Package pipeline runs the batch stages: one clean stage per domain, then the warehouse load.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/spice-etl/internal/cleaner"
	"github.com/Veraticus/spice-etl/internal/cli"
	"github.com/Veraticus/spice-etl/internal/common"
	"github.com/Veraticus/spice-etl/internal/config"
	"github.com/Veraticus/spice-etl/internal/loader"
	"github.com/Veraticus/spice-etl/internal/model"
	"github.com/Veraticus/spice-etl/internal/service"
	"github.com/Veraticus/spice-etl/internal/tabular"
)

const previewRows = 5

// Pipeline runs stages against the files and directories named in a Config.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	progress io.Writer
	now      func() time.Time
	newRunID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress draws a progress bar for the load stage on w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithRunID replaces the run id generator.
func WithRunID(newRunID func() string) Option {
	return func(p *Pipeline) {
		p.newRunID = newRunID
	}
}

// New creates a pipeline.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		logger:   slog.Default(),
		progress: io.Discard,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CleanSummary reports the outcome of one clean stage.
type CleanSummary struct {
	Dropped    map[cleaner.DropReason]int
	Domain     model.Domain
	Source     string
	Output     string
	Input      int
	Kept       int
	Duplicates int
}

// DroppedTotal returns the number of rows that failed validation.
func (s *CleanSummary) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// RunSummary reports a full run.
type RunSummary struct {
	RunID   string
	Cleaned []*CleanSummary
	Loaded  []loader.Summary
}

// cleaned is a domain's cleaned table ready to be written.
type cleaned struct {
	dropped    map[cleaner.DropReason]int
	header     []string
	rows       [][]string
	input      int
	duplicates int
}

func cleanWith[T any](
	t *tabular.Table,
	clean func(*tabular.Table) (cleaner.Result[T], error),
	encode func([]T) ([]string, [][]string),
) (cleaned, error) {
	res, err := clean(t)
	if err != nil {
		return cleaned{}, err
	}
	header, rows := encode(res.Records)
	return cleaned{
		dropped:    res.Dropped,
		header:     header,
		rows:       rows,
		input:      res.Input,
		duplicates: res.Duplicates,
	}, nil
}

func cleanDomain(d model.Domain, t *tabular.Table) (cleaned, error) {
	switch d {
	case model.DomainTransactions:
		return cleanWith(t, cleaner.Transactions, cleaner.EncodeTransactions)
	case model.DomainSales:
		return cleanWith(t, cleaner.Sales, cleaner.EncodeSales)
	case model.DomainInventory:
		return cleanWith(t, cleaner.Inventory, cleaner.EncodeInventory)
	default:
		return cleaned{}, fmt.Errorf("unknown domain %q", d)
	}
}

// Clean reads a domain's raw export, cleans it, and writes the processed CSV.
func (p *Pipeline) Clean(ctx context.Context, d model.Domain) (*CleanSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := p.cfg.RawPath(d)
	table, err := tabular.Read(source)
	if err != nil {
		return nil, err
	}

	out, err := cleanDomain(d, table)
	if err != nil {
		return nil, fmt.Errorf("failed to clean %s: %w", source, err)
	}

	output := p.cfg.ProcessedPath(d)
	if err := tabular.WriteCSV(output, out.header, out.rows); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	summary := &CleanSummary{
		Domain:     d,
		Source:     source,
		Output:     output,
		Input:      out.input,
		Kept:       len(out.rows),
		Duplicates: out.duplicates,
		Dropped:    out.dropped,
	}
	p.logClean(summary, out)
	return summary, nil
}

func (p *Pipeline) logClean(s *CleanSummary, out cleaned) {
	p.logger.Info("Cleaned records",
		"domain", s.Domain,
		"rows", s.Input,
		"kept", s.Kept,
		"dropped", s.DroppedTotal(),
		"duplicates", s.Duplicates,
		"output", s.Output)

	reasons := make([]string, 0, len(s.Dropped))
	for r := range s.Dropped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		p.logger.Debug("Dropped rows", "domain", s.Domain, "reason", r, "rows", s.Dropped[cleaner.DropReason(r)])
	}

	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	p.logger.Debug("Preview", "domain", s.Domain, "columns", strings.Join(out.header, " | "))
	for i, row := range out.rows {
		if i == previewRows {
			break
		}
		p.logger.Debug("Preview", "domain", s.Domain, "row", i+1, "values", strings.Join(row, " | "))
	}
}

// Load loads every domain's processed CSV into the warehouse, in domain order. All processed
// files must exist before anything is written. Each domain's outcome is recorded in etl_runs
// under one run id.
func (p *Pipeline) Load(ctx context.Context, wh service.Warehouse) ([]loader.Summary, error) {
	return p.load(ctx, wh, p.newRunID())
}

func (p *Pipeline) load(ctx context.Context, wh service.Warehouse, runID string) ([]loader.Summary, error) {
	for _, d := range model.Domains {
		path := p.cfg.ProcessedPath(d)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &common.MissingInputError{Path: path}
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := wh.Migrate(ctx); err != nil {
		return nil, err
	}

	fl := loader.NewFactLoader(wh, p.logger)
	bar := cli.NewProgressBar(p.progress, len(model.Domains), "Loading warehouse")
	summaries := make([]loader.Summary, 0, len(model.Domains))

	for _, d := range model.Domains {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		started := p.now()
		path := p.cfg.ProcessedPath(d)
		summary, err := p.loadDomain(ctx, fl, d, path)
		if err != nil {
			return summaries, err
		}

		run := model.RunRecord{
			RunID:      runID,
			Domain:     d,
			SourceFile: path,
			Records:    summary.Records,
			Inserted:   summary.Inserted,
			Skipped:    summary.Skipped,
			Unresolved: summary.Unresolved,
			StartedAt:  started,
			FinishedAt: p.now(),
		}
		if err := wh.RecordRun(ctx, run); err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)

		if err := bar.Add(1); err != nil {
			p.logger.Debug("Failed to update progress bar", "error", err)
		}
	}

	p.logger.Info("All data loaded", "driver", wh.Driver(), "run_id", runID)
	return summaries, nil
}

// loadDomain re-reads a processed CSV through its cleaner and loads the records. Cleaning is
// idempotent, so this only restores types.
func (p *Pipeline) loadDomain(ctx context.Context, fl *loader.FactLoader, d model.Domain, path string) (loader.Summary, error) {
	table, err := tabular.Read(path)
	if err != nil {
		return loader.Summary{Domain: d}, err
	}

	switch d {
	case model.DomainTransactions:
		res, err := cleaner.Transactions(table)
		if err != nil {
			return loader.Summary{Domain: d}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return fl.LoadTransactions(ctx, res.Records)
	case model.DomainSales:
		res, err := cleaner.Sales(table)
		if err != nil {
			return loader.Summary{Domain: d}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return fl.LoadSales(ctx, res.Records)
	case model.DomainInventory:
		res, err := cleaner.Inventory(table)
		if err != nil {
			return loader.Summary{Domain: d}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return fl.LoadInventory(ctx, res.Records)
	default:
		return loader.Summary{Domain: d}, fmt.Errorf("unknown domain %q", d)
	}
}

// Run cleans every domain and then loads the warehouse. The first failing stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, wh service.Warehouse) (*RunSummary, error) {
	summary := &RunSummary{RunID: p.newRunID()}

	for _, d := range model.Domains {
		cs, err := p.Clean(ctx, d)
		if err != nil {
			return summary, err
		}
		summary.Cleaned = append(summary.Cleaned, cs)
	}

	loaded, err := p.load(ctx, wh, summary.RunID)
	summary.Loaded = loaded
	if err != nil {
		return summary, err
	}
	return summary, nil
}
