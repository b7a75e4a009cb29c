// Package db keeps a small run-history store so past solving runs can be
// inspected without digging through results files.
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func Open(path string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(path, "libsql://") {
		driver = "libsql"
	}
	database, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

type Run struct {
	ID         string
	QuizURL    string
	Questions  int
	Answered   int
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, quiz_url, questions, answered, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.QuizURL,
		run.Questions,
		run.Answered,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
	)
	return err
}

func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, quiz_url, questions, answered, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt int64
		err := rows.Scan(
			&run.ID,
			&run.QuizURL,
			&run.Questions,
			&run.Answered,
			&startedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(startedAt, 0)
		run.FinishedAt = time.Unix(finishedAt, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
