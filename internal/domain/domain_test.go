package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDNSResponse_JSONRoundTrip(t *testing.T) {
	want := DNSResponse{
		IPv4:       "93.184.216.34",
		Expiry:     time.Date(2025, 8, 18, 12, 5, 0, 0, time.UTC),
		MeasuredAt: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got DNSResponse
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.IPv4 != want.IPv4 || !got.Expiry.Equal(want.Expiry) || !got.MeasuredAt.Equal(want.MeasuredAt) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
}
