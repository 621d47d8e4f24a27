package repo

import (
	"context"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

// ResponseStore is the persistence port for the response cache — swap in
// any adapter (YAML file, Postgres).
//
// Load returns the last persisted mapping; a missing backing store is not an
// error and yields an empty mapping. Save persists the full mapping and must
// never leave the store in a partially-written state.
type ResponseStore interface {
	Load(ctx context.Context) (map[string]domain.DNSResponse, error)
	Save(ctx context.Context, responses map[string]domain.DNSResponse) error
}
