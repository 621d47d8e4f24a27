// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/CBonnell/discord-dns-webhook/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	hosts, err := config.LoadHosts(cfg.ConfigFile)
	if err != nil {
		fail(fmt.Sprintf("CONFIG_FILE %q does not load: %v", cfg.ConfigFile, err))
	}
	if len(hosts) == 0 {
		warn("config has no hosts; the watcher will idle on the sleep floor.")
	} else {
		ok(fmt.Sprintf("CONFIG_FILE=%s (%d hosts)", cfg.ConfigFile, len(hosts)))
	}

	for _, h := range hosts {
		if !strings.HasPrefix(h.Config.WebhookURI, "http") {
			warn(fmt.Sprintf("host %s: webhook_uri %q does not look like a URL", h.Hostname, h.Config.WebhookURI))
		}
	}

	if _, err := os.Stat(cfg.CacheFile); err != nil {
		warn(fmt.Sprintf("CACHE_FILE %q missing — first run will start with an empty cache.", cfg.CacheFile))
	} else {
		ok("CACHE_FILE=" + cfg.CacheFile)
	}

	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty — cache will be file-backed unless overridden at runtime.")
	} else {
		ok("DATABASE_URL present")
	}

	if cfg.Addr == "" {
		warn("API_ADDR empty; status API disabled.")
	} else {
		ok("API_ADDR=" + cfg.Addr)
	}
}
