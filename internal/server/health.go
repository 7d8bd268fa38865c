package server

import (
	"context"
	"errors"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// Pinger is implemented by both network stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthService reports the store as unhealthy when it cannot be reached.
type StoreHealthService struct {
	Store Pinger
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.Store == nil {
		return errors.New("no store configured")
	}
	return s.Store.Ping(ctx)
}
