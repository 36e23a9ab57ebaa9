package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-conversion-analysis/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite database and creates the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	// Create tables if not exists
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			config TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS stage_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			completed_at DATETIME,
			records INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS model_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			experiment TEXT,
			model TEXT,
			mtry INTEGER,
			cv_accuracy REAL,
			accuracy REAL,
			sensitivity REAL,
			specificity REAL,
			kappa REAL,
			tp INTEGER, fp INTEGER, tn INTEGER, fn INTEGER,
			train_seconds REAL,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database handle.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new analysis run with its configuration.
func SaveRun(runID string, cfg model.Config) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, config, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, cfgJSON, "pending", now, now)
	return err
}

// UpdateRunStatus updates run status.
func UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID, stage string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, stage, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, err.Error(), now)
	return e
}

// RunErrors returns the errors recorded for a run, oldest first.
func RunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var stage, message string
		var createdAt time.Time
		if err := rows.Scan(&stage, &message, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"stage":     stage,
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return out, rows.Err()
}

// SaveStageProgress records when a stage started/completed and how
// many records it handled.
func SaveStageProgress(runID, stage, status string, startedAt, completedAt *time.Time, records int) error {
	_, err := db.Exec(`INSERT INTO stage_progress (run_id, stage, status, started_at, completed_at, records)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, completedAt, records)
	return err
}

// SaveModelResult persists one trained-and-evaluated model.
func SaveModelResult(runID string, r model.ModelResult) error {
	now := time.Now().UTC()
	cm := r.Confusion
	_, err := db.Exec(`INSERT INTO model_results
		(run_id, experiment, model, mtry, cv_accuracy, accuracy, sensitivity, specificity, kappa,
		 tp, fp, tn, fn, train_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Experiment, r.Model, r.Mtry, r.CVAccuracy,
		cm.Accuracy(), cm.Sensitivity(), cm.Specificity(), cm.Kappa(),
		cm.TP, cm.FP, cm.TN, cm.FN, r.TrainSeconds, now)
	return err
}

// ListRuns returns all runs with basic info.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches a run's config and status.
func GetRun(runID string) (map[string]interface{}, error) {
	var cfgJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT config, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&cfgJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"config":    cfg,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// ModelResults returns the persisted model results for a run.
func ModelResults(runID string) ([]model.ModelResult, error) {
	rows, err := db.Query(`SELECT experiment, model, mtry, cv_accuracy, tp, fp, tn, fn, train_seconds
		FROM model_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ModelResult
	for rows.Next() {
		var r model.ModelResult
		if err := rows.Scan(&r.Experiment, &r.Model, &r.Mtry, &r.CVAccuracy,
			&r.Confusion.TP, &r.Confusion.FP, &r.Confusion.TN, &r.Confusion.FN,
			&r.TrainSeconds); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
