package resolver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func startTestServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func newTestResolver(server string, now time.Time) *DNS {
	return &DNS{
		Server: server,
		client: &dns.Client{Timeout: 2 * time.Second},
		now:    func() time.Time { return now },
	}
}

func TestResolve_FirstAnswerAndTTLExpiry(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		m.Answer = append(m.Answer,
			&dns.A{
				Hdr: dns.RR_Header{Name: req.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
				A:   net.ParseIP("1.2.3.4"),
			},
			&dns.A{
				Hdr: dns.RR_Header{Name: req.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.ParseIP("5.6.7.8"),
			},
		)
		_ = w.WriteMsg(m)
	})

	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	r := newTestResolver(addr, now)

	resp, err := r.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resp.IPv4 != "1.2.3.4" {
		t.Fatalf("want first answer 1.2.3.4, got %s", resp.IPv4)
	}
	if !resp.MeasuredAt.Equal(now) {
		t.Fatalf("measured_at wrong: %v", resp.MeasuredAt)
	}
	if want := now.Add(300 * time.Second); !resp.Expiry.Equal(want) {
		t.Fatalf("expiry: want %v, got %v", want, resp.Expiry)
	}
}

func TestResolve_NXDOMAIN(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		_ = w.WriteMsg(m)
	})

	r := newTestResolver(addr, time.Now())
	if _, err := r.Resolve(context.Background(), "nxdomain.example.com"); err == nil {
		t.Fatal("expected error for NXDOMAIN")
	}
}

func TestResolve_EmptyAnswer(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		_ = w.WriteMsg(m)
	})

	r := newTestResolver(addr, time.Now())
	_, err := r.Resolve(context.Background(), "empty.example.com")
	if !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("want ErrNoAnswer, got %v", err)
	}
}
