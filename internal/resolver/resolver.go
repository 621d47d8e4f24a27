package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

// Resolver is implemented by anything that can answer a single A-record
// lookup for a host.
type Resolver interface {
	Resolve(ctx context.Context, host string) (domain.DNSResponse, error)
}

// ErrNoAnswer means the query succeeded but returned no A records.
var ErrNoAnswer = errors.New("no A records in answer")

var queryTimeout = 5 * time.Second

// DNS resolves hosts by exchanging directly with a nameserver, which is the
// only way to see the answer's authoritative TTL (net.Resolver hides it).
type DNS struct {
	Server string // host:port of the nameserver
	client *dns.Client
	now    func() time.Time
}

// New returns a resolver pointed at the first resolv.conf nameserver,
// falling back to 1.1.1.1 when none is configured.
func New() *DNS {
	server := ""
	if cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cfg.Servers) > 0 {
		server = net.JoinHostPort(cfg.Servers[0], cfg.Port)
	}
	if server == "" {
		server = "1.1.1.1:53"
	}
	return &DNS{
		Server: server,
		client: &dns.Client{Timeout: queryTimeout},
		now:    time.Now,
	}
}

// Resolve performs a single A-record lookup. It returns the first answer's
// address, the answer's TTL converted to an absolute expiry, and the time
// the measurement completed.
func (r *DNS) Resolve(ctx context.Context, host string) (domain.DNSResponse, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)

	reply, _, err := r.client.ExchangeContext(ctx, m, r.Server)
	measured := r.now()
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return domain.DNSResponse{}, fmt.Errorf("resolve %s: %s", host, dns.RcodeToString[reply.Rcode])
	}

	for _, rr := range reply.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		ttl := time.Duration(a.Hdr.Ttl) * time.Second
		return domain.DNSResponse{
			IPv4:       a.A.String(),
			Expiry:     measured.Add(ttl),
			MeasuredAt: measured,
		}, nil
	}
	return domain.DNSResponse{}, fmt.Errorf("resolve %s: %w", host, ErrNoAnswer)
}
