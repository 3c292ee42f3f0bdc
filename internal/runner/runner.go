package runner

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"saferm/internal/config"
	"saferm/internal/database"
	"saferm/internal/fserr"
	"saferm/internal/fsops"
	"saferm/internal/metrics"
	"saferm/internal/remove"
	"saferm/internal/safety"

	"github.com/prometheus/client_golang/prometheus"
)

// RemovalLogger interface for structured logging in the runner
type RemovalLogger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// runnerStdLogger wraps standard log.Logger to implement RemovalLogger
type runnerStdLogger struct {
	*log.Logger
}

func (l *runnerStdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *runnerStdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *runnerStdLogger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Metrics interface for removal metrics
type Metrics interface {
	Outcome(outcome string) prometheus.Counter
	FilesRemoved() prometheus.Counter
	DirsRemoved() prometheus.Counter
	Retries() prometheus.Counter
	PermRepairs() prometheus.Counter
	Errors() prometheus.Counter
	ObserveDuration(seconds float64)
}

// globalMetrics wraps the process-wide metrics to implement Metrics
type globalMetrics struct{}

func (m *globalMetrics) Outcome(outcome string) prometheus.Counter {
	return metrics.RemovalsTotal.WithLabelValues(outcome)
}
func (m *globalMetrics) FilesRemoved() prometheus.Counter { return metrics.FilesRemovedTotal }
func (m *globalMetrics) DirsRemoved() prometheus.Counter  { return metrics.DirsRemovedTotal }
func (m *globalMetrics) Retries() prometheus.Counter      { return metrics.RetriesTotal }
func (m *globalMetrics) PermRepairs() prometheus.Counter  { return metrics.PermRepairsTotal }
func (m *globalMetrics) Errors() prometheus.Counter       { return metrics.ErrorsTotal }
func (m *globalMetrics) ObserveDuration(seconds float64)  { metrics.RemovalDuration.Observe(seconds) }

// Runner drives removal requests from the CLI: safety guard, dry-run,
// structured logging, metrics, and history recording around the engine
type Runner struct {
	logger  RemovalLogger
	metrics Metrics
	guard   *safety.Guard
	opts    remove.Options
	fs      fsops.FS
	dryRun  bool
	db      *database.RemovalDB // removal history, optional
}

// Summary aggregates one Run over a set of paths
type Summary struct {
	Succeeded       int
	Skipped         int
	Failed          int
	SafetyViolation bool
}

// NewRunner creates a Runner from configuration
func NewRunner(logger *log.Logger, cfg *config.Config, dryRun bool, db *database.RemovalDB) *Runner {
	runnerLogger := &runnerStdLogger{Logger: logger}
	if logger == nil {
		runnerLogger.Logger = log.Default()
	}
	return &Runner{
		logger:  runnerLogger,
		metrics: &globalMetrics{},
		guard:   safety.NewGuard(cfg.ProtectedPaths),
		opts:    cfg.RemoverOptions(),
		fs:      fsops.OSFS{},
		dryRun:  dryRun,
		db:      db,
	}
}

// SetFS replaces the filesystem; used by tests to prove dry-run never
// deletes
func (r *Runner) SetFS(fs fsops.FS) {
	r.fs = fs
}

// SetMetrics replaces the metrics sink; used by tests
func (r *Runner) SetMetrics(m Metrics) {
	r.metrics = m
}

// SetOptions overrides the engine options derived from configuration
func (r *Runner) SetOptions(opts remove.Options) {
	r.opts = opts
}

// Run processes every path and returns the aggregate outcome. Paths are
// independent; one failure does not stop the rest.
func (r *Runner) Run(paths []string) Summary {
	var sum Summary
	r.logger.Info("Starting removal run", "paths", len(paths), "dry_run", r.dryRun)

	for _, path := range paths {
		switch err := r.RemoveOne(path); {
		case err == nil:
			sum.Succeeded++
		case isSafetyError(err):
			sum.Skipped++
			sum.SafetyViolation = true
		default:
			sum.Failed++
		}
	}

	r.logger.Info("Removal run complete",
		"succeeded", sum.Succeeded,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return sum
}

// RemoveOne handles a single top-level request end to end
func (r *Runner) RemoveOne(path string) error {
	if err := r.guard.CheckTarget(path); err != nil {
		r.logStructured(database.ActionSkip, path, r.objectType(path), "")
		r.recordHistory(database.RemovalRecord{
			Action:       database.ActionSkip,
			Path:         path,
			ObjectType:   r.objectType(path),
			ErrorMessage: err.Error(),
		})
		r.metrics.Outcome("skipped").Inc()
		r.logger.Error("Refusing to remove", "path", path, "error", err)
		return err
	}

	objectType := r.objectType(path)

	if r.dryRun {
		r.logger.Info("[DRY RUN] Would remove", "path", path, "object", objectType)
		r.logStructured(database.ActionDryRun, path, objectType, "")
		r.recordHistory(database.RemovalRecord{
			Action:     database.ActionDryRun,
			Path:       path,
			ObjectType: objectType,
		})
		return nil
	}

	opts := r.opts
	opts.FS = r.fs
	opts.OnRetry = func(p string, attempt int, err error) {
		r.metrics.Retries().Inc()
		r.logger.Info("Retrying removal", "path", p, "attempt", attempt, "code", fserr.Code(err))
	}
	engine := remove.New(opts)

	start := time.Now()
	err := engine.Remove(path)
	r.metrics.ObserveDuration(time.Since(start).Seconds())

	stats := engine.Stats()
	r.metrics.FilesRemoved().Add(float64(stats.Files))
	r.metrics.DirsRemoved().Add(float64(stats.Dirs))
	r.metrics.PermRepairs().Add(float64(stats.Repairs))

	rec := database.RemovalRecord{
		Path:         path,
		ObjectType:   objectType,
		FilesRemoved: stats.Files,
		DirsRemoved:  stats.Dirs,
		Retries:      stats.Retries,
		Repairs:      stats.Repairs,
	}

	if err != nil {
		code := fserr.Code(err)
		r.logger.Error("Failed to remove", "path", path, "code", code, "error", err)
		r.logStructured(database.ActionError, path, objectType, code)
		rec.Action = database.ActionError
		rec.Code = code
		rec.ErrorMessage = err.Error()
		r.recordHistory(rec)
		r.metrics.Outcome("error").Inc()
		r.metrics.Errors().Inc()
		return err
	}

	r.logStructured(database.ActionRemove, path, objectType, "")
	rec.Action = database.ActionRemove
	r.recordHistory(rec)
	r.metrics.Outcome("success").Inc()
	return nil
}

// objectType stats the target without following symlinks; best effort,
// "missing" when it is already gone
func (r *Runner) objectType(path string) string {
	info, err := r.fs.Lstat(path)
	if err != nil {
		return "missing"
	}
	switch {
	case info.IsDir():
		return "directory"
	case info.Mode()&os.ModeSymlink != 0:
		return "symlink"
	default:
		return "file"
	}
}

func (r *Runner) recordHistory(rec database.RemovalRecord) {
	if r.db == nil {
		return
	}
	if err := r.db.RecordRemoval(rec); err != nil {
		// History is advisory; a write failure must not fail the removal
		r.logger.Error("Failed to record removal history", "error", err)
	}
}

// logStructured logs one outcome line: timestamp, action, path, object
// type, error code
func (r *Runner) logStructured(action, path, objectType, code string) {
	logEntry := fmt.Sprintf("[%s] %s path=%s object=%s",
		time.Now().UTC().Format(time.RFC3339),
		action,
		path,
		objectType,
	)
	if code != "" {
		logEntry += " code=" + code
	}
	r.logger.Info(logEntry)
}

func isSafetyError(err error) bool {
	for _, sentinel := range []error{
		safety.ErrInvalidPath,
		safety.ErrProtectedPath,
		safety.ErrTraversal,
		remove.ErrRootPath,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
