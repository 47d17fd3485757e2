package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt    *sql.Stmt
	insertResultStmt *sql.Stmt
	getRunStmt       *sql.Stmt
	resultsByRunStmt *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			errored INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			config_json TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS question_results (
			run_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			raw_answer TEXT NOT NULL,
			score REAL NOT NULL,
			correct INTEGER NOT NULL,
			method TEXT NOT NULL,
			error TEXT,
			latency_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, question_id),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_question_results_run_id ON question_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, dataset, provider, model, started_at, finished_at,
					total_questions, correct, errored, accuracy, config_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertResultStmt,
			query: `
				INSERT OR REPLACE INTO question_results (
					run_id, question_id, raw_answer, score, correct, method, error, latency_ms
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert result: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, dataset, provider, model, started_at, finished_at,
					total_questions, correct, errored, accuracy, config_json
				FROM runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
		{
			dst: &s.resultsByRunStmt,
			query: `
				SELECT run_id, question_id, raw_answer, score, correct, method, error, latency_ms
				FROM question_results
				WHERE run_id = ?
				ORDER BY question_id ASC
			`,
			errFmt: "store: prepare get results: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertResultStmt,
		s.getRunStmt,
		s.resultsByRunStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a run summary.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}

	id := strings.TrimSpace(run.ID)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return errors.New("store: missing run timestamps")
	}

	cfgJSON := []byte("null")
	if run.Config != nil {
		var err error
		cfgJSON, err = json.Marshal(run.Config)
		if err != nil {
			return fmt.Errorf("store: marshal run config: %w", err)
		}
	}

	_, err := s.insertRunStmt.ExecContext(
		ctx,
		id,
		run.Dataset,
		run.Provider,
		run.Model,
		run.StartedAt.UTC().UnixMilli(),
		run.FinishedAt.UTC().UnixMilli(),
		run.TotalQuestions,
		run.Correct,
		run.Errored,
		run.Accuracy,
		string(cfgJSON),
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// SaveResults persists per-question results for a run in one
// transaction.
func (s *SQLiteStore) SaveResults(ctx context.Context, runID string, results []ResultRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return errors.New("store: empty run id")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin results tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertResultStmt)
	defer stmt.Close()

	for i := range results {
		r := &results[i]
		qid := strings.TrimSpace(r.QuestionID)
		if qid == "" {
			return errors.New("store: empty question id")
		}
		_, err := stmt.ExecContext(
			ctx,
			runID,
			qid,
			r.RawAnswer,
			r.Score,
			boolToInt(r.Correct),
			r.Method,
			r.Error,
			r.LatencyMs,
		)
		if err != nil {
			return fmt.Errorf("store: insert result %q: %w", qid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit results: %w", err)
	}
	return nil
}

// GetRun loads a run by id. Missing runs return sql.ErrNoRows.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	row := s.getRunStmt.QueryRowContext(ctx, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	return run, nil
}

// ListRuns returns run summaries newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, dataset, provider, model, started_at, finished_at,
		total_questions, correct, errored, accuracy, config_json
		FROM runs WHERE 1=1`)

	var args []any
	if dataset := strings.TrimSpace(filter.Dataset); dataset != "" {
		sb.WriteString(` AND dataset = ?`)
		args = append(args, dataset)
	}
	if provider := strings.TrimSpace(filter.Provider); provider != "" {
		sb.WriteString(` AND provider = ?`)
		args = append(args, provider)
	}
	if !filter.Since.IsZero() {
		sb.WriteString(` AND started_at >= ?`)
		args = append(args, filter.Since.UTC().UnixMilli())
	}
	if !filter.Until.IsZero() {
		sb.WriteString(` AND started_at <= ?`)
		args = append(args, filter.Until.UTC().UnixMilli())
	}
	sb.WriteString(` ORDER BY started_at DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// GetResults returns the per-question results for a run.
func (s *SQLiteStore) GetResults(ctx context.Context, runID string) ([]*ResultRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("store: empty run id")
	}

	rows, err := s.resultsByRunStmt.QueryContext(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get results: %w", err)
	}
	defer rows.Close()

	var out []*ResultRecord
	for rows.Next() {
		var (
			r         ResultRecord
			correct   int
			errColumn sql.NullString
		)
		if err := rows.Scan(&r.RunID, &r.QuestionID, &r.RawAnswer, &r.Score, &correct, &r.Method, &errColumn, &r.LatencyMs); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		r.Correct = correct != 0
		if errColumn.Valid {
			r.Error = errColumn.String
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: get results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run          RunRecord
		model        sql.NullString
		startedAtMS  int64
		finishedAtMS int64
		cfgJSON      sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.Dataset,
		&run.Provider,
		&model,
		&startedAtMS,
		&finishedAtMS,
		&run.TotalQuestions,
		&run.Correct,
		&run.Errored,
		&run.Accuracy,
		&cfgJSON,
	)
	if err != nil {
		return nil, err
	}

	if model.Valid {
		run.Model = model.String
	}
	run.StartedAt = time.UnixMilli(startedAtMS).UTC()
	run.FinishedAt = time.UnixMilli(finishedAtMS).UTC()

	if cfgJSON.Valid && cfgJSON.String != "" && cfgJSON.String != "null" {
		if err := json.Unmarshal([]byte(cfgJSON.String), &run.Config); err != nil {
			return nil, fmt.Errorf("unmarshal run config: %w", err)
		}
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
