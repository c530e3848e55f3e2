package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/gateway"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/httpclient"
)

// InstanceOptions configures the session machinery built per client.
type InstanceOptions struct {
	BaseURL string
	Timeout time.Duration
	Stores  ports.SessionStoreProvider
	// Events may be nil to disable the audit trail.
	Events ports.SessionEventPublisher
	Logger zerolog.Logger
}

// NewInstanceFactory returns the factory the InstanceRegistry uses on a
// client's first request. Every instance gets its own store scope,
// transport and invalidation notifier, so a 401 seen by one browser never
// signs out another.
func NewInstanceFactory(opts InstanceOptions) service.InstanceFactory {
	return func(clientID string) (*service.Instance, error) {
		log := opts.Logger.With().Str("client_id", clientID).Logger()
		store := opts.Stores.ForClient(clientID)
		notifier := httpclient.NewNotifier()

		client := gateway.NewSessionTransport(opts.BaseURL, opts.Timeout, []httpclient.Option{httpclient.WithLogger(log)}, store, notifier)

		ctrl := service.NewSessionController(clientID, store, gateway.NewAuthGateway(client, store), opts.Events, opts.Logger)
		return service.NewInstance(ctrl, gateway.NewBackend(client), notifier), nil
	}
}
