package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// LevelProgress is the best result recorded for a level.
type LevelProgress struct {
	LevelID   string
	BestScore int
	BestStars int
	Wins      int
	LastWon   time.Time
}

var _ engine.ProgressSaver = (*Store)(nil)

// SaveProgress records a won session. Every win is kept; best values are
// derived at query time.
func (s *Store) SaveProgress(result engine.LevelResult) error {
	if result.LevelID == "" {
		return fmt.Errorf("storage: cannot save progress without level id")
	}
	_, err := s.db.Exec(
		"INSERT INTO level_progress (level_id, score, stars) VALUES (?, ?, ?)",
		result.LevelID, result.FinalScore, result.StarsEarned,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	return nil
}

// Progress returns the best result for one level.
// A level that was never won returns a zero LevelProgress and no error.
func (s *Store) Progress(levelID string) (LevelProgress, error) {
	all, err := s.AllProgress()
	if err != nil {
		return LevelProgress{}, err
	}
	if p, ok := all[levelID]; ok {
		return p, nil
	}
	return LevelProgress{LevelID: levelID}, nil
}

// AllProgress returns the best result of every level that was won at least once.
func (s *Store) AllProgress() (map[string]LevelProgress, error) {
	rows, err := s.db.Query(
		`SELECT level_id, MAX(score), MAX(stars), COUNT(*), MAX(created_at)
		 FROM level_progress
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]LevelProgress)
	for rows.Next() {
		var p LevelProgress
		var lastWon any
		if err := rows.Scan(&p.LevelID, &p.BestScore, &p.BestStars, &p.Wins, &lastWon); err != nil {
			return nil, fmt.Errorf("storage: cannot scan progress row: %w", err)
		}
		p.LastWon = parseTime(lastWon)
		progress[p.LevelID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return progress, nil
}
