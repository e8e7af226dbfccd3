package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadgenius_backend/internal/leads/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	analysesTable      = "lead_analyses"
	uniqueViolationErr = "23505"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var analysisColumns = []string{"id", "created_at", "dataset_type", "lead_data", "scoring_result"}

// PostgresStore keeps analyses in the lead_analyses table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, rec domain.LeadRecord) error {
	query, args, err := appendQuery(rec)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErr {
			return ErrDuplicate
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error) {
	query, args, err := psql.Select(analysisColumns...).
		From(analysesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.LeadRecord{}, err
	}

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LeadRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]domain.LeadRecord, error) {
	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LeadRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// lead_data and scoring_result are written as JSON text so the json
// column keeps attribute order.
func appendQuery(rec domain.LeadRecord) (string, []interface{}, error) {
	leadData, err := json.Marshal(rec.LeadData)
	if err != nil {
		return "", nil, fmt.Errorf("encode lead data: %w", err)
	}
	result, err := json.Marshal(rec.ScoringResult)
	if err != nil {
		return "", nil, fmt.Errorf("encode scoring result: %w", err)
	}

	return psql.Insert(analysesTable).
		Columns("id", "created_at", "dataset_type", "status", "score", "lead_name", "lead_data", "scoring_result").
		Values(
			rec.ID,
			rec.Date.UTC(),
			string(rec.DatasetType),
			string(rec.ScoringResult.Status),
			rec.ScoringResult.Score,
			rec.LeadData.LeadName(),
			string(leadData),
			string(result),
		).
		ToSql()
}

func listQuery(filter ListFilter) sq.SelectBuilder {
	filter = filter.Normalized()
	q := psql.Select(analysisColumns...).
		From(analysesTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))
	if filter.DatasetType != "" {
		q = q.Where(sq.Eq{"dataset_type": string(filter.DatasetType)})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	return q
}

func scanRecord(row pgx.Row) (domain.LeadRecord, error) {
	var (
		rec        domain.LeadRecord
		createdAt  time.Time
		dataset    string
		leadData   []byte
		resultJSON []byte
	)
	if err := row.Scan(&rec.ID, &createdAt, &dataset, &leadData, &resultJSON); err != nil {
		return domain.LeadRecord{}, err
	}
	if err := json.Unmarshal(leadData, &rec.LeadData); err != nil {
		return domain.LeadRecord{}, fmt.Errorf("decode lead data: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &rec.ScoringResult); err != nil {
		return domain.LeadRecord{}, fmt.Errorf("decode scoring result: %w", err)
	}
	rec.Date = createdAt.UTC()
	rec.DatasetType = domain.DatasetType(dataset)
	return rec, nil
}
