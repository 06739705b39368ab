// Package orchestrator implements the client-facing operations (price
// quoting, order creation, cancellation) by composing the user, product, and
// order collaborators. Cosmetic schema differences between collaborator
// deployments are absorbed by the schema field definitions; optional features
// (categories, history) degrade instead of failing the primary operation.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ccastillo/delivery-orchestrator/internal/idempotency"
	"github.com/ccastillo/delivery-orchestrator/internal/schema"
	"github.com/ccastillo/delivery-orchestrator/internal/upstream"
)

type Orchestrator struct {
	users    *upstream.Users
	products *upstream.Products
	orders   *upstream.Orders
	history  *HistoryWriter
	idem     *idempotency.Cache
	taxRate  float64
	logger   *slog.Logger
	metrics  *metrics
}

func New(users *upstream.Users, products *upstream.Products, orders *upstream.Orders, idem *idempotency.Cache, taxRate float64, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		users:    users,
		products: products,
		orders:   orders,
		history:  NewHistoryWriter(orders, logger),
		idem:     idem,
		taxRate:  taxRate,
		logger:   logger,
		metrics:  newMetrics(),
	}
}

// DependencyStatus is one collaborator's answer to the deep health probe.
type DependencyStatus struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DeepHealth probes all three collaborators concurrently, best-effort. Ready
// is true only when every probe answered 200.
func (o *Orchestrator) DeepHealth(ctx context.Context) (map[string]DependencyStatus, bool) {
	probes := []struct {
		name string
		call func(context.Context) (*upstream.Reply, error)
		url  string
	}{
		{"users", func(ctx context.Context) (*upstream.Reply, error) { return o.users.Get(ctx, 1) }, o.users.BaseURL() + "/usuarios/1"},
		{"products", o.products.List, o.products.BaseURL() + "/productos"},
		{"orders", o.orders.List, o.orders.BaseURL() + "/pedidos"},
	}

	results := make([]DependencyStatus, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = DependencyStatus{URL: p.url}
			reply, err := p.call(ctx)
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].Status = reply.Status
		}()
	}
	wg.Wait()

	deps := make(map[string]DependencyStatus, len(probes))
	ready := true
	for i, p := range probes {
		deps[p.name] = results[i]
		if results[i].Status != 200 {
			ready = false
		}
	}
	return deps, ready
}

// AddressDebug exposes the raw and normalized address payload for a user, for
// troubleshooting collaborator schema drift.
type AddressDebug struct {
	Status     int   `json:"status"`
	Raw        any   `json:"raw"`
	Normalized []any `json:"normalized"`
}

func (o *Orchestrator) DebugAddresses(ctx context.Context, userID int) (*AddressDebug, error) {
	reply, err := o.users.Addresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AddressDebug{
		Status:     reply.Status,
		Raw:        reply.Body,
		Normalized: schema.NormalizeList(reply.Body),
	}, nil
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
