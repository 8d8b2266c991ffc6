package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
)

// SolvedRepository is the Solve Store: the durable collection of solved
// problem records, queryable by owner and by "everyone but this owner".
type SolvedRepository interface {
	// Upsert inserts the record or, when the identity tuple
	// (owner, problem_name, topic, subtopic, difficulty) already exists,
	// refreshes solved_at and link in place. Returns true when a new row
	// was created.
	Upsert(ctx context.Context, rec *model.SolvedRecord) (bool, error)
	FindByOwner(ctx context.Context, owner string) ([]model.SolvedRecord, error)
	FindExcludingOwner(ctx context.Context, owner string) ([]model.SolvedRecord, error)
	// FindByOwnerAndProblem returns the most recent record the owner has for
	// the problem, regardless of topic/difficulty classification.
	FindByOwnerAndProblem(ctx context.Context, owner, problemName string) (*model.SolvedRecord, error)
}

type pgSolvedRepository struct {
	db *sql.DB
}

func NewPgSolvedRepository(db *sql.DB) SolvedRepository {
	return &pgSolvedRepository{db: db}
}

const solvedColumns = `id, owner, problem_name, topic, subtopic, difficulty, link, solved_at, created_at, updated_at`

func (r *pgSolvedRepository) Upsert(ctx context.Context, rec *model.SolvedRecord) (bool, error) {
	// xmax = 0 only for freshly inserted rows, which tells apart insert
	// from conflict-update without a second round trip.
	query := `INSERT INTO solved_records (id, owner, problem_name, topic, subtopic, difficulty, link, solved_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (owner, problem_name, topic, COALESCE(subtopic, ''), difficulty)
	          DO UPDATE SET solved_at = EXCLUDED.solved_at,
	                        link = EXCLUDED.link,
	                        updated_at = CURRENT_TIMESTAMP
	          RETURNING (xmax = 0)`
	var created bool
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Owner, rec.ProblemName, rec.Topic, rec.Subtopic, rec.Difficulty, rec.Link, rec.SolvedAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("pgSolvedRepository.Upsert: %w", err)
	}
	return created, nil
}

func (r *pgSolvedRepository) FindByOwner(ctx context.Context, owner string) ([]model.SolvedRecord, error) {
	query := `SELECT ` + solvedColumns + ` FROM solved_records
	          WHERE owner = $1 ORDER BY solved_at DESC`
	records, err := r.queryRecords(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.FindByOwner: %w", err)
	}
	return records, nil
}

func (r *pgSolvedRepository) FindExcludingOwner(ctx context.Context, owner string) ([]model.SolvedRecord, error) {
	query := `SELECT ` + solvedColumns + ` FROM solved_records
	          WHERE owner <> $1 ORDER BY solved_at DESC`
	records, err := r.queryRecords(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedRepository.FindExcludingOwner: %w", err)
	}
	return records, nil
}

func (r *pgSolvedRepository) FindByOwnerAndProblem(ctx context.Context, owner, problemName string) (*model.SolvedRecord, error) {
	query := `SELECT ` + solvedColumns + ` FROM solved_records
	          WHERE owner = $1 AND problem_name = $2
	          ORDER BY solved_at DESC LIMIT 1`
	rec := &model.SolvedRecord{}
	err := r.db.QueryRowContext(ctx, query, owner, problemName).Scan(
		&rec.ID, &rec.Owner, &rec.ProblemName, &rec.Topic, &rec.Subtopic,
		&rec.Difficulty, &rec.Link, &rec.SolvedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSolvedRepository.FindByOwnerAndProblem: %w", err)
	}
	return rec, nil
}

func (r *pgSolvedRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]model.SolvedRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.SolvedRecord{}
	for rows.Next() {
		var rec model.SolvedRecord
		if err := rows.Scan(
			&rec.ID, &rec.Owner, &rec.ProblemName, &rec.Topic, &rec.Subtopic,
			&rec.Difficulty, &rec.Link, &rec.SolvedAt, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
