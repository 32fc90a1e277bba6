package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// ResolutionRepository stores the audit trail of webhook resolutions.
type ResolutionRepository interface {
	Create(ctx context.Context, resolution *domain.Resolution) error
	GetLatestByTicket(ctx context.Context, ticketID string) (*domain.Resolution, error)
}

type resolutionRepository struct {
	pool *pgxpool.Pool
}

// NewResolutionRepository builds repository.
func NewResolutionRepository(pool *pgxpool.Pool) ResolutionRepository {
	return &resolutionRepository{pool: pool}
}

func (r *resolutionRepository) Create(ctx context.Context, resolution *domain.Resolution) error {
	args, err := resolutionInsertArgs(resolution)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO order_resolutions (id, ticket_id, message_id, matched, order_number, method, is_split,
            candidate_count, result, upstream_warnings, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

// resolutionInsertArgs orders the column values for Create. created_at is the
// resolution's own timestamp so the stored row agrees with the events it produced.
func resolutionInsertArgs(resolution *domain.Resolution) ([]any, error) {
	if resolution.CreatedAt.IsZero() {
		return nil, fmt.Errorf("resolution %s has no created_at", resolution.ID)
	}
	result, err := json.Marshal(resolution.Result)
	if err != nil {
		return nil, fmt.Errorf("encode resolution result: %w", err)
	}
	warnings := resolution.UpstreamWarnings
	if warnings == nil {
		warnings = []string{}
	}
	return []any{
		resolution.ID,
		resolution.TicketID,
		resolution.MessageID,
		resolution.Matched,
		resolution.OrderNumber,
		resolution.Method,
		resolution.IsSplit,
		resolution.CandidateCount,
		result,
		warnings,
		resolution.CreatedAt,
	}, nil
}

func (r *resolutionRepository) GetLatestByTicket(ctx context.Context, ticketID string) (*domain.Resolution, error) {
	const query = `
        SELECT id, ticket_id, message_id, matched, order_number, method, is_split, candidate_count,
            result, upstream_warnings, created_at
        FROM order_resolutions WHERE ticket_id=$1 ORDER BY created_at DESC LIMIT 1`

	var (
		resolution domain.Resolution
		result     []byte
	)
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&resolution.ID,
		&resolution.TicketID,
		&resolution.MessageID,
		&resolution.Matched,
		&resolution.OrderNumber,
		&resolution.Method,
		&resolution.IsSplit,
		&resolution.CandidateCount,
		&result,
		&resolution.UpstreamWarnings,
		&resolution.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &resolution.Result); err != nil {
		return nil, fmt.Errorf("decode resolution result: %w", err)
	}
	return &resolution, nil
}
