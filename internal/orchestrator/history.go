package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ccastillo/delivery-orchestrator/internal/upstream"
)

// The order service may or may not implement history, and deployments that do
// disagree on both the route and the payload key for the order id. The writer
// discovers a working (route, payload) combination once and caches it for the
// process lifetime; a service where every combination answers 404 is recorded
// as not supporting history at all, which is a successful no-op for callers.

var historyRoutes = []func(orderID string) string{
	func(string) string { return "/historial" },
	func(id string) string { return "/pedidos/" + id + "/historial" },
	func(id string) string { return "/historial/" + id },
}

var historyPayloads = []func(orderID, state, comment string) map[string]any{
	func(id, state, comment string) map[string]any {
		return map[string]any{"id_pedido": id, "estado": state, "comentarios": comment}
	},
	func(id, state, comment string) map[string]any {
		return map[string]any{"idPedido": id, "estado": state, "comentarios": comment}
	},
	func(id, state, comment string) map[string]any {
		return map[string]any{"pedido_id": id, "estado": state, "comentarios": comment}
	},
	// Some deployments infer the order id from the route.
	func(_, state, comment string) map[string]any {
		return map[string]any{"estado": state, "comentarios": comment}
	},
}

type historyCapability int

const (
	historyUnknown historyCapability = iota
	historyUnsupported
	historySupported
)

type HistoryWriter struct {
	orders *upstream.Orders
	logger *slog.Logger

	mu         sync.Mutex
	capability historyCapability
	route      int
	payload    int
}

func NewHistoryWriter(orders *upstream.Orders, logger *slog.Logger) *HistoryWriter {
	return &HistoryWriter{orders: orders, logger: logger}
}

// Write records a history entry for the order. The first return is false only
// when the order service implements history and the write genuinely failed;
// an unsupported feature reports true so optional functionality never blocks
// the primary operation.
func (h *HistoryWriter) Write(ctx context.Context, orderID, state, comment string) (bool, string) {
	h.mu.Lock()
	capability, route, payload := h.capability, h.route, h.payload
	h.mu.Unlock()

	switch capability {
	case historyUnsupported:
		return true, "history not supported by order service"
	case historySupported:
		path := historyRoutes[route](orderID)
		reply, err := h.orders.PostHistory(ctx, path, historyPayloads[payload](orderID, state, comment))
		if err == nil && reply.OK() {
			return true, "history recorded via " + path
		}
		if err == nil && reply.Status == 404 {
			// The collaborator stopped answering on the known route; rediscover.
			h.logger.Warn("cached history route vanished, re-probing", "path", path)
			return h.discover(ctx, orderID, state, comment)
		}
		if err != nil {
			return false, fmt.Sprintf("history write failed: %v", err)
		}
		return false, fmt.Sprintf("history write failed (status %d via %s)", reply.Status, path)
	}

	return h.discover(ctx, orderID, state, comment)
}

// discover walks the route × payload cross-product until something answers
// 2xx. Only 404 answers are evidence of an unimplemented feature; any other
// failure makes the whole write a real failure and leaves the capability
// undecided for the next attempt.
func (h *HistoryWriter) discover(ctx context.Context, orderID, state, comment string) (bool, string) {
	sawOnly404 := true
	saw404 := false
	lastDetail := ""

	for ri, routeFn := range historyRoutes {
		path := routeFn(orderID)
		for pi, payloadFn := range historyPayloads {
			reply, err := h.orders.PostHistory(ctx, path, payloadFn(orderID, state, comment))
			if err != nil {
				// A transport failure is no evidence either way; keep probing.
				lastDetail = fmt.Sprintf("history attempt on %s failed: %v", path, err)
				continue
			}
			if reply.OK() {
				h.remember(historySupported, ri, pi)
				return true, "history recorded via " + path
			}
			lastDetail = fmt.Sprintf("last status %d via %s", reply.Status, path)
			if reply.Status == 404 {
				saw404 = true
			} else {
				sawOnly404 = false
			}
		}
	}

	if sawOnly404 {
		// Cache the verdict only when the service actually answered; a fully
		// unreachable service should be re-probed next time.
		if saw404 {
			h.remember(historyUnsupported, 0, 0)
		}
		return true, "history not supported by order service (404 on all routes)"
	}
	return false, "history write failed (" + lastDetail + ")"
}

func (h *HistoryWriter) remember(capability historyCapability, route, payload int) {
	h.mu.Lock()
	h.capability, h.route, h.payload = capability, route, payload
	h.mu.Unlock()
}
