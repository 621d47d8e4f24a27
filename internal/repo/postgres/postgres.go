package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
	"github.com/CBonnell/discord-dns-webhook/internal/repo"
)

var _ repo.ResponseStore = (*Store)(nil)

// Store keeps the response cache in a dns_responses table. Rows are only
// ever upserted, never deleted — entries for hosts removed from config stay
// until manually cleared, same as the file adapter.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Load(ctx context.Context) (map[string]domain.DNSResponse, error) {
	const q = `SELECT host, ipv4, expiry, measured_at FROM dns_responses`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select responses: %w", err)
	}
	defer rows.Close()

	out := map[string]domain.DNSResponse{}
	for rows.Next() {
		var host string
		var r domain.DNSResponse
		if err := rows.Scan(&host, &r.IPv4, &r.Expiry, &r.MeasuredAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out[host] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, responses map[string]domain.DNSResponse) error {
	const q = `
		INSERT INTO dns_responses (host, ipv4, expiry, measured_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (host)
		DO UPDATE SET ipv4=EXCLUDED.ipv4, expiry=EXCLUDED.expiry, measured_at=EXCLUDED.measured_at
	`
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for host, r := range responses {
		if _, err := tx.Exec(ctx, q, host, r.IPv4, r.Expiry, r.MeasuredAt); err != nil {
			return fmt.Errorf("upsert %s: %w", host, err)
		}
	}
	return tx.Commit(ctx)
}
