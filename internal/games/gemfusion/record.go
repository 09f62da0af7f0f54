package gemfusion

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/replay"
)

// recordingPath returns the log path of the n-th session of a run.
func recordingPath(base string, n int) string {
	if n <= 1 {
		return base
	}
	ext := replay.Extension
	if !strings.HasSuffix(base, ext) {
		ext = filepath.Ext(base)
	}
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), n, ext)
}

// openRecorder starts a new replay log for the current session.
func (g *Game) openRecorder(seed int64) {
	if g.recordPath == "" {
		return
	}
	if err := g.closeRecorder(); err != nil {
		g.logger.Error("failed to close replay log", "err", err)
	}

	g.recordCount++
	path := recordingPath(g.recordPath, g.recordCount)
	w, err := replay.Create(path, replay.Header{
		LevelID:  g.session.Level.ID,
		Seed:     seed,
		Moves:    g.session.MovesLeft,
		Rules:    g.session.Rules(),
		Hash:     g.session.Hash(),
		Recorded: time.Now().UTC(),
	})
	if err != nil {
		g.logger.Error("failed to create replay log", "path", path, "err", err)
		return
	}
	g.recorder = w
	g.logger.Info("recording session", "path", path)
}

func (g *Game) record(a, b engine.Cell, res engine.MoveResult, moveErr error) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Record(a, b, res, moveErr, g.session.Hash()); err != nil {
		g.logger.Error("failed to record move", "err", err)
		g.recorder = nil
	}
}

func (g *Game) closeRecorder() error {
	if g.recorder == nil {
		return nil
	}
	w := g.recorder
	g.recorder = nil
	return w.Close()
}
