package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 8
	DefaultFileTimeout = 30 * time.Second
)

// Manager runs registered file hooks against the files of a change.
type Manager struct {
	repoName       string
	hooks          []FileHook
	changesetHooks []ChangesetHook
	concurrency    int
	fileTimeout    time.Duration
	logger         *slog.Logger
}

type Option func(*Manager)

func WithRepoName(name string) Option {
	return func(m *Manager) { m.repoName = name }
}

// WithConcurrency bounds how many files are validated at once.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithFileTimeout bounds content retrieval for each file. Zero disables
// the timeout.
func WithFileTimeout(d time.Duration) Option {
	return func(m *Manager) { m.fileTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		concurrency: DefaultConcurrency,
		fileTimeout: DefaultFileTimeout,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Register(hook FileHook) {
	m.hooks = append(m.hooks, hook)
}

func (m *Manager) RegisterChangeset(hook ChangesetHook) {
	m.changesetHooks = append(m.changesetHooks, hook)
}

// HookNames lists registered hooks in run order, file hooks first.
func (m *Manager) HookNames() []string {
	names := make([]string, 0, len(m.hooks)+len(m.changesetHooks))
	for _, h := range m.hooks {
		names = append(names, h.Name())
	}
	for _, h := range m.changesetHooks {
		names = append(names, h.Name())
	}
	return names
}

// RunChangesetHooks runs every registered changeset hook against each
// changeset, in order. Changeset hooks only look at metadata, so they run
// sequentially.
func (m *Manager) RunChangesetHooks(ctx context.Context, changesets []Changeset) (*Report, error) {
	report := &Report{Changesets: len(changesets)}
	for _, cs := range changesets {
		for _, hook := range m.changesetHooks {
			verdict, err := hook.RunChangeset(ctx, m.repoName, cs)
			if err != nil {
				return nil, fmt.Errorf("hook %s on commit %s: %w", hook.Name(), cs.ShortID(), err)
			}
			m.logger.Debug("changeset hook ran",
				"hook", hook.Name(),
				"commit", cs.ID,
				"verdict", verdict.String(),
			)
			report.Outcomes = append(report.Outcomes, Outcome{
				Hook:      hook.Name(),
				Changeset: cs.ID,
				Verdict:   verdict,
			})
		}
	}
	return report, nil
}

// RunFileHooks runs every registered hook against every file. Files are
// validated concurrently and independently; the report keeps input order.
// The first hook error, typically a failure to fetch content, aborts the
// run and is returned.
func (m *Manager) RunFileHooks(ctx context.Context, files []File) (*Report, error) {
	start := time.Now()
	outcomes := make([][]Outcome, len(files))
	var bytesRead atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, file := range files {
		g.Go(func() error {
			fctx := gctx
			if m.fileTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, m.fileTimeout)
				defer cancel()
			}

			hc := newHookContext(m.repoName, file, func() ([]byte, error) {
				data, err := file.Content(fctx)
				bytesRead.Add(int64(len(data)))
				return data, err
			})

			for _, hook := range m.hooks {
				verdict, err := hook.Run(fctx, hc)
				if err != nil {
					return fmt.Errorf("hook %s on %s: %w", hook.Name(), file.Path, err)
				}
				m.logger.Debug("hook ran",
					"hook", hook.Name(),
					"path", file.Path,
					"type", file.Type.String(),
					"verdict", verdict.String(),
				)
				outcomes[i] = append(outcomes[i], Outcome{
					Hook:    hook.Name(),
					Path:    file.Path,
					Type:    file.Type,
					Verdict: verdict,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: len(files), BytesRead: bytesRead.Load()}
	for _, fileOutcomes := range outcomes {
		report.Outcomes = append(report.Outcomes, fileOutcomes...)
	}

	m.logger.Info("hooks complete",
		"repo", m.repoName,
		"files", report.Files,
		"rejected", len(report.Rejected()),
		"bytes_read", report.BytesRead,
		"elapsed", time.Since(start),
	)
	return report, nil
}

// Outcome is the verdict of one hook on one file, or on one changeset when
// Changeset is set.
type Outcome struct {
	Hook      string
	Path      string
	Type      ChangeType
	Changeset string
	Verdict   Verdict
}

// Report aggregates the outcomes of a run.
type Report struct {
	Outcomes   []Outcome
	Files      int
	Changesets int
	BytesRead  int64
}

// Merge appends the outcomes and counts of other to r.
func (r *Report) Merge(other *Report) {
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
	r.Files += other.Files
	r.Changesets += other.Changesets
	r.BytesRead += other.BytesRead
}

// Accepted reports whether the change as a whole may go through: no hook
// rejected any file.
func (r *Report) Accepted() bool {
	return len(r.Rejected()) == 0
}

func (r *Report) Rejected() []Outcome {
	var rejected []Outcome
	for _, o := range r.Outcomes {
		if !o.Verdict.IsAccepted() {
			rejected = append(rejected, o)
		}
	}
	return rejected
}
