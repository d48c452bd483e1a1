package persistence

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// RuleWatcher calls onChange when the rule file is edited by someone other
// than the repository. The parent directory is watched so editors that
// replace the file by rename are seen.
type RuleWatcher struct {
	repo     *YAMLAutomationRepository
	onChange func(ctx context.Context) error
	debounce time.Duration
	log      *zap.Logger

	lastSeen [sha256.Size]byte
}

func NewRuleWatcher(repo *YAMLAutomationRepository, onChange func(ctx context.Context) error, logger *zap.Logger) *RuleWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleWatcher{repo: repo, onChange: onChange, debounce: defaultDebounce, log: logger}
}

// Run blocks until ctx is cancelled.
func (w *RuleWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	path, err := filepath.Abs(w.repo.Path())
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}
	if data, err := os.ReadFile(path); err == nil {
		w.lastSeen = sha256.Sum256(data)
	}
	w.log.Info("watching rule file", zap.String("path", path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("rule watcher error", zap.Error(err))
		case <-timer.C:
			w.check(ctx, path)
		}
	}
}

func (w *RuleWatcher) check(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("cannot read rule file", zap.String("path", path), zap.Error(err))
		return
	}
	hash := sha256.Sum256(data)
	if hash == w.lastSeen {
		return
	}
	w.lastSeen = hash
	if w.repo.WroteContent(data) {
		return
	}
	w.log.Info("rule file changed externally", zap.String("path", path))
	if err := w.onChange(ctx); err != nil {
		w.log.Error("rule change handler failed", zap.Error(err))
	}
}
