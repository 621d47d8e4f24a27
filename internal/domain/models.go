package domain

import "time"

// HostConfig describes a monitored host as declared in the config file.
// Loaded once at startup; immutable for the process lifetime.
type HostConfig struct {
	Name       string `yaml:"name" json:"name"`
	WebhookURI string `yaml:"webhook_uri" json:"webhook_uri"`
}

// Host pairs a hostname (the DNS name to resolve) with its config,
// preserving the order hosts appear in the config file.
type Host struct {
	Hostname string     `json:"hostname"`
	Config   HostConfig `json:"config"`
}

// DNSResponse is the last known answer for a host. Expiry is the answer's
// TTL added to MeasuredAt, never a fixed constant.
type DNSResponse struct {
	IPv4       string    `json:"ipv4"`
	Expiry     time.Time `json:"expiry"`
	MeasuredAt time.Time `json:"measured_at"`
}
