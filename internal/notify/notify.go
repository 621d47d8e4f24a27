package notify

import (
	"context"

	"go.uber.org/multierr"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, host string, cfg domain.HostConfig, resp domain.DNSResponse) error
}

type Multi []Notifier

func (m Multi) Notify(ctx context.Context, host string, cfg domain.HostConfig, resp domain.DNSResponse) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Notify(ctx, host, cfg, resp))
	}
	return errs
}
