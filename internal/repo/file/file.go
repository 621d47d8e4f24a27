package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
	"github.com/CBonnell/discord-dns-webhook/internal/repo"
)

var _ repo.ResponseStore = (*Store)(nil)

// Store persists the response cache as a YAML file: a mapping from hostname
// to {ipv4, expiry, response_time} with times as epoch seconds.
type Store struct {
	path string
	log  *zap.Logger
}

func New(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

type entry struct {
	IPv4         string `yaml:"ipv4"`
	Expiry       int64  `yaml:"expiry"`
	ResponseTime int64  `yaml:"response_time"`
}

// Load reads the cache file. A missing or unreadable file degrades to an
// empty mapping with a logged warning; a file that exists but does not parse
// is returned as an error so startup can abort instead of silently
// re-notifying every host.
func (s *Store) Load(ctx context.Context) (map[string]domain.DNSResponse, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("cache_file_unreadable", zap.String("path", s.path), zap.Error(err))
		return map[string]domain.DNSResponse{}, nil
	}

	var entries map[string]entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse cache %q: %w", s.path, err)
	}

	out := make(map[string]domain.DNSResponse, len(entries))
	for host, e := range entries {
		out[host] = domain.DNSResponse{
			IPv4:       e.IPv4,
			Expiry:     time.Unix(e.Expiry, 0).UTC(),
			MeasuredAt: time.Unix(e.ResponseTime, 0).UTC(),
		}
	}
	return out, nil
}

// Save writes the full mapping via a temp file in the same directory and an
// atomic rename, so readers never observe a partially-written cache.
func (s *Store) Save(ctx context.Context, responses map[string]domain.DNSResponse) error {
	entries := make(map[string]entry, len(responses))
	for host, r := range responses {
		entries[host] = entry{
			IPv4:         r.IPv4,
			Expiry:       r.Expiry.Unix(),
			ResponseTime: r.MeasuredAt.Unix(),
		}
	}

	raw, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cache into place: %w", err)
	}
	return nil
}
