// Package storage persists best designs and per-generation optimisation
// history to sqlite. The store doubles as the optimizer's progress observer;
// writes are fire-and-forget from the algorithm's perspective, so failures
// are logged rather than propagated into the run.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"k8s.io/klog/v2"
	_ "modernc.org/sqlite"

	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

var _ framework.ProgressObserver = &Store{}
var _ framework.BestObserver = &Store{}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS buildings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			genome_id TEXT NOT NULL,
			design TEXT NOT NULL,
			scores TEXT NOT NULL,
			overall_fitness REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS optimisation_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generation INTEGER NOT NULL,
			best TEXT NOT NULL,
			mean TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`)
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

// BuildingRecord is one persisted design with its scores.
type BuildingRecord struct {
	ID             int64
	GenomeID       string
	Design         building.Design
	Scores         framework.ObjectiveSpacePoint
	OverallFitness float64
	CreatedAt      time.Time
}

// HistoryRecord is one generation's best and mean objective vectors.
type HistoryRecord struct {
	Generation int
	Best       framework.ObjectiveSpacePoint
	Mean       framework.ObjectiveSpacePoint
	CreatedAt  time.Time
}

// SaveBuilding stores a design with its objective vector and an overall
// fitness aggregate, returning the row id.
func (s *Store) SaveBuilding(ctx context.Context, genomeID string, d building.Design, scores framework.ObjectiveSpacePoint, overall float64) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	designJSON, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("encoding design: %w", err)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return 0, fmt.Errorf("encoding scores: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO buildings (genome_id, design, scores, overall_fitness, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, genomeID, string(designJSON), string(scoresJSON), overall, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetBuilding fetches a persisted design by row id; the boolean reports
// whether the row exists.
func (s *Store) GetBuilding(ctx context.Context, id int64) (BuildingRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return BuildingRecord{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, genome_id, design, scores, overall_fitness, created_at
		FROM buildings WHERE id = ?
	`, id)

	var rec BuildingRecord
	var designJSON, scoresJSON string
	err = row.Scan(&rec.ID, &rec.GenomeID, &designJSON, &scoresJSON, &rec.OverallFitness, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildingRecord{}, false, nil
	}
	if err != nil {
		return BuildingRecord{}, false, err
	}

	if err := json.Unmarshal([]byte(designJSON), &rec.Design); err != nil {
		return BuildingRecord{}, false, fmt.Errorf("decoding design: %w", err)
	}
	if err := json.Unmarshal([]byte(scoresJSON), &rec.Scores); err != nil {
		return BuildingRecord{}, false, fmt.Errorf("decoding scores: %w", err)
	}
	return rec, true, nil
}

// SaveHistory appends one generation's summary vectors.
func (s *Store) SaveHistory(ctx context.Context, generation int, best, mean framework.ObjectiveSpacePoint) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	bestJSON, err := json.Marshal(best)
	if err != nil {
		return fmt.Errorf("encoding best vector: %w", err)
	}
	meanJSON, err := json.Marshal(mean)
	if err != nil {
		return fmt.Errorf("encoding mean vector: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO optimisation_history (generation, best, mean, created_at)
		VALUES (?, ?, ?, ?)
	`, generation, string(bestJSON), string(meanJSON), time.Now().UTC())
	return err
}

// History returns every generation summary in generation order.
func (s *Store) History(ctx context.Context) ([]HistoryRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, best, mean, created_at
		FROM optimisation_history ORDER BY generation
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var bestJSON, meanJSON string
		if err := rows.Scan(&rec.Generation, &bestJSON, &meanJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bestJSON), &rec.Best); err != nil {
			return nil, fmt.Errorf("decoding best vector: %w", err)
		}
		if err := json.Unmarshal([]byte(meanJSON), &rec.Mean); err != nil {
			return nil, fmt.Errorf("decoding mean vector: %w", err)
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// OnGeneration implements framework.ProgressObserver.
func (s *Store) OnGeneration(generation int, best, mean framework.ObjectiveSpacePoint) {
	if err := s.SaveHistory(context.Background(), generation, best, mean); err != nil {
		klog.ErrorS(err, "failed to persist generation history", "generation", generation)
	}
}

// OnBestSolution implements framework.BestObserver.
func (s *Store) OnBestSolution(sol framework.Solution, scores framework.ObjectiveSpacePoint) {
	genome, ok := sol.(*building.Genome)
	if !ok {
		klog.ErrorS(nil, "best solution is not a building genome", "type", fmt.Sprintf("%T", sol))
		return
	}
	d, err := building.Decode(genome)
	if err != nil {
		klog.ErrorS(err, "failed to decode best genome", "genome", genome.ID())
		return
	}
	overall := building.DefaultWeights.WeightedScore(scores)
	if _, err := s.SaveBuilding(context.Background(), genome.ID(), d, scores, overall); err != nil {
		klog.ErrorS(err, "failed to persist best design", "genome", genome.ID())
	}
}
