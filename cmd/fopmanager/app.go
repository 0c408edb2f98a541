package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"fopmanager/internal/adapters/export"
	"fopmanager/internal/blob"
	"fopmanager/internal/config"
	"fopmanager/internal/core"
	"fopmanager/pkg/domain"
)

// app holds the per-invocation state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	logger   *slog.Logger
	store    core.PersistentStore
	model    *core.Model
	registry *prometheus.Registry
	dirty    bool

	showMetrics bool
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.stderr)
	a.registry = prometheus.NewRegistry()

	store, err := core.OpenPersistentStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	a.store = store
	model, err := core.LoadModel(ctx, store,
		core.WithLogger(a.logger),
		core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(a.registry)),
		core.WithHistoryOptions(core.WithHistoryLimit(cfg.HistoryLimit)),
	)
	if err != nil {
		return err
	}
	a.model = model
	a.logger.Debug("address book loaded", "driver", cfg.Storage.Driver,
		"persons", len(model.FilteredPersons()), "groups", len(model.FilteredGroups()))
	return nil
}

// mutate runs fn against the model and marks the book for saving on success.
func (a *app) mutate(fn func(*core.Model) error) error {
	if err := fn(a.model); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) save(ctx context.Context) error {
	if !a.dirty {
		return nil
	}
	if err := core.SaveModel(ctx, a.store, a.model); err != nil {
		return err
	}
	a.dirty = false
	a.logger.Info("address book saved", "driver", a.cfg.Storage.Driver, "last_change", firstOr(a.model.UndoLabels(), ""))
	return nil
}

func (a *app) close() error {
	if a.showMetrics && a.registry != nil {
		a.dumpMetrics()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) exporter(ctx context.Context) (*export.Exporter, error) {
	store, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("open %s blob store: %w", a.cfg.Blob.Driver, err)
	}
	return export.NewExporter(store, export.WithLogger(a.logger)), nil
}

// dumpMetrics writes the operation counters gathered during this run.
func (a *app) dumpMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gather metrics failed", "error", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		_, _ = fmt.Fprintln(a.stderr, line)
	}
}

func personPredicate(where string, names, tags []string) (core.Predicate[domain.Person], error) {
	var preds []core.Predicate[domain.Person]
	if strings.TrimSpace(where) != "" {
		p, err := core.CompilePersonExpr(where)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if len(names) > 0 {
		preds = append(preds, core.NameContainsKeywords(names...))
	}
	if len(tags) > 0 {
		preds = append(preds, core.TagsContainKeywords(tags...))
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return func(p domain.Person) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}, nil
}

func printPersons(w io.Writer, persons []domain.Person) {
	if len(persons) == 0 {
		_, _ = fmt.Fprintln(w, "0 persons listed!")
		return
	}
	for i, p := range persons {
		_, _ = fmt.Fprintf(w, "%d. %s | %s | %s | group %s | tags [%s]\n",
			i+1, p.Name, p.Phone, p.Email, orDash(p.Group), strings.Join(p.SortedTags(), ", "))
	}
	_, _ = fmt.Fprintf(w, "%d persons listed!\n", len(persons))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

// describeError turns domain sentinels into user-facing messages.
func describeError(err error) error {
	var recErr domain.RecordError
	switch {
	case errors.As(err, &recErr) && errors.Is(err, domain.ErrDuplicateIdentity):
		return fmt.Errorf("this %s already exists in the address book: %s", recErr.Kind, recErr.Name)
	case errors.As(err, &recErr) && errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("no %s named %s in the address book", recErr.Kind, recErr.Name)
	case errors.Is(err, export.ErrNothingToExport):
		return errors.New("there are no participants to export")
	default:
		return err
	}
}
