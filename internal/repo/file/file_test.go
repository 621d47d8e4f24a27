package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yml")
	s := New(path, zap.NewNop())
	ctx := context.Background()

	want := map[string]domain.DNSResponse{
		"example.com": {
			IPv4:       "1.2.3.4",
			Expiry:     time.Date(2025, 8, 18, 12, 5, 0, 0, time.UTC),
			MeasuredAt: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
		},
		"other.example.net": {
			IPv4:       "5.6.7.8",
			Expiry:     time.Date(2025, 8, 18, 13, 0, 0, 0, time.UTC),
			MeasuredAt: time.Date(2025, 8, 18, 12, 30, 0, 0, time.UTC),
		},
	}

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d", len(want), len(got))
	}
	for host, w := range want {
		g, ok := got[host]
		if !ok {
			t.Fatalf("missing host %s", host)
		}
		if g.IPv4 != w.IPv4 || !g.Expiry.Equal(w.Expiry) || !g.MeasuredAt.Equal(w.MeasuredAt) {
			t.Fatalf("host %s mismatch:\nwant=%+v\ngot =%+v", host, w, g)
		}
	}

	// no stray temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.yml"), zap.NewNop())
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("missing cache should not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty mapping, got %d entries", len(got))
	}
}

func TestStore_LoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(path, zap.NewNop())
	if _, err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt cache")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yml")
	s := New(path, zap.NewNop())
	ctx := context.Background()

	first := map[string]domain.DNSResponse{
		"a.example.com": {IPv4: "1.1.1.1", Expiry: time.Unix(100, 0).UTC(), MeasuredAt: time.Unix(50, 0).UTC()},
		"b.example.com": {IPv4: "2.2.2.2", Expiry: time.Unix(200, 0).UTC(), MeasuredAt: time.Unix(60, 0).UTC()},
	}
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := map[string]domain.DNSResponse{
		"a.example.com": {IPv4: "9.9.9.9", Expiry: time.Unix(300, 0).UTC(), MeasuredAt: time.Unix(250, 0).UTC()},
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["a.example.com"].IPv4 != "9.9.9.9" {
		t.Fatalf("overwrite failed: %+v", got)
	}
}
