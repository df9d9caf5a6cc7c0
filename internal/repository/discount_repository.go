package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smarthome-mall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

const discountColumns = `code, kind, value, uses_left, expiration_date, can_cumulate, created_at`

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = $1`

	d, err := scanDiscount(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("discount code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount code")
		return nil, fmt.Errorf("failed to query discount code: %w", err)
	}

	return d, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discount codes")
		return nil, fmt.Errorf("failed to query discount codes: %w", err)
	}
	defer rows.Close()

	codes := []model.DiscountCode{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discount row")
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		codes = append(codes, *d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating discount rows")
		return nil, fmt.Errorf("error iterating discount codes: %w", err)
	}

	return codes, nil
}

func (r *discountRepository) Create(ctx context.Context, d *model.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, d.Code, string(d.Kind), d.Value, d.UsesLeft, d.ExpirationDate, d.CanCumulate, d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDiscountExists
		}
		r.logger.Error().Err(err).Str("code", d.Code).Msg("failed to create discount code")
		return fmt.Errorf("failed to create discount code: %w", err)
	}

	r.logger.Info().Str("code", d.Code).Str("kind", string(d.Kind)).Msg("discount code created")
	return nil
}

func (r *discountRepository) Deactivate(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE discount_codes SET uses_left = 0 WHERE code = $1`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to deactivate discount code")
		return fmt.Errorf("failed to deactivate discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	r.logger.Info().Str("code", code).Msg("discount code deactivated")
	return nil
}

// Delete refuses codes that any order references. The check and the delete
// run in one statement so a concurrent checkout cannot slip in between.
func (r *discountRepository) Delete(ctx context.Context, code string) error {
	query := `
		WITH referenced AS (
			SELECT EXISTS (SELECT 1 FROM orders WHERE $1 = ANY(discount_codes)) AS used
		), deleted AS (
			DELETE FROM discount_codes
			WHERE code = $1 AND NOT (SELECT used FROM referenced)
			RETURNING code
		)
		SELECT
			(SELECT used FROM referenced),
			(SELECT COUNT(*) FROM deleted),
			EXISTS (SELECT 1 FROM discount_codes WHERE code = $1)
	`

	var referenced, exists bool
	var deleted int
	if err := r.pool.QueryRow(ctx, query, code).Scan(&referenced, &deleted, &exists); err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to delete discount code")
		return fmt.Errorf("failed to delete discount code: %w", err)
	}

	switch {
	case deleted > 0:
		r.logger.Info().Str("code", code).Msg("discount code deleted")
		return nil
	case referenced && exists:
		return model.ErrDiscountReferenced
	default:
		return model.ErrDiscountNotFound
	}
}

// DecrementUses consumes one use. A limited code with no uses left fails with
// model.ErrDiscountExhausted, which covers two checkouts racing for the last use.
func (r *discountRepository) DecrementUses(ctx context.Context, tx pgx.Tx, code string) error {
	query := `
		UPDATE discount_codes
		SET uses_left = CASE WHEN uses_left IS NULL THEN NULL ELSE uses_left - 1 END
		WHERE code = $1 AND (uses_left IS NULL OR uses_left > 0)
	`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to decrement discount uses")
		return fmt.Errorf("failed to decrement discount uses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrDiscountExhausted, code)
	}

	return nil
}

// Upsert writes imported codes. Existing codes are replaced, except that
// created_at keeps its original value.
func (r *discountRepository) Upsert(ctx context.Context, codes []model.DiscountCode) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error().Err(err).Msg("failed to rollback transaction")
		}
	}()

	query := `
		INSERT INTO discount_codes (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			kind = EXCLUDED.kind,
			value = EXCLUDED.value,
			uses_left = EXCLUDED.uses_left,
			expiration_date = EXCLUDED.expiration_date,
			can_cumulate = EXCLUDED.can_cumulate
	`

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, d := range codes {
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		batch.Queue(query, d.Code, string(d.Kind), d.Value, d.UsesLeft, d.ExpirationDate, d.CanCumulate, createdAt)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range codes {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().Err(err).Str("code", codes[i].Code).Msg("failed to upsert discount code")
			return 0, fmt.Errorf("failed to upsert discount code %s: %w", codes[i].Code, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to upsert discount codes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit discount import")
		return 0, fmt.Errorf("failed to commit discount import: %w", err)
	}

	r.logger.Info().Int("count", len(codes)).Msg("discount codes upserted")
	return len(codes), nil
}

func scanDiscount(row pgx.Row) (*model.DiscountCode, error) {
	var d model.DiscountCode
	var kind string
	err := row.Scan(&d.Code, &kind, &d.Value, &d.UsesLeft, &d.ExpirationDate, &d.CanCumulate, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Kind = model.DiscountKind(kind)
	return &d, nil
}
