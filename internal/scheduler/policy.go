package scheduler

import (
	"time"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

// IsStale reports whether a host needs re-resolution: it has no cached
// response, or the cached response's expiry has passed.
func IsStale(responses map[string]domain.DNSResponse, host string, now time.Time) bool {
	r, ok := responses[host]
	if !ok {
		return true
	}
	return !r.Expiry.After(now)
}

// IsNotable reports whether a new response warrants a notification: the
// first-ever resolution for a host, or an address change. Expiry and
// measurement-time differences alone never notify.
func IsNotable(prev *domain.DNSResponse, cur domain.DNSResponse) bool {
	return prev == nil || prev.IPv4 != cur.IPv4
}
