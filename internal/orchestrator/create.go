package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
	"github.com/ccastillo/delivery-orchestrator/internal/idempotency"
)

// CreateOutcome carries the exact response bytes for the transport layer.
// Replays must be byte-identical to the first answer, so the marshaled form
// is what gets cached and returned, not the struct.
type CreateOutcome struct {
	Response []byte
	Order    *domain.CreatedOrder
	Replayed bool
}

// CreateOrder runs the creation workflow: idempotency check, user+address
// validation, authoritative re-pricing, submission, order-id extraction, and
// a best-effort history entry. A history failure never rolls the order back;
// it becomes a warning on an otherwise successful response, and that final
// response (warning included) is what gets cached under the idempotency key.
func (o *Orchestrator) CreateOrder(ctx context.Context, req domain.OrderRequest, idemKey string, rawPayload []byte) (*CreateOutcome, error) {
	payloadHash := idempotency.HashPayload(rawPayload)
	if cached, ok, err := o.idem.Lookup(idemKey, payloadHash); err != nil {
		return nil, err
	} else if ok {
		o.metrics.idempotentReplays.Add(ctx, 1)
		o.logger.Info("create replayed from idempotency cache", "idempotency_key", idemKey)
		return &CreateOutcome{Response: cached, Replayed: true}, nil
	}

	if err := o.ensureUserAndAddress(ctx, req.UserID, &req.AddressID); err != nil {
		return nil, err
	}

	// Prices from any earlier quote are never trusted here; every product is
	// re-fetched and, unlike quoting, a single unresolvable line fails the
	// whole order.
	replies := o.fetchProducts(ctx, req.Items)

	lines := make([]domain.OrderLine, 0, len(req.Items))
	lineTotals := make([]float64, 0, len(req.Items))
	for i, line := range req.Items {
		reply := replies[i]
		if reply == nil || reply.Status != 200 {
			status := 0
			if reply != nil {
				status = reply.Status
			}
			return nil, &domain.InvalidProductError{ProductID: line.ProductID, Status: status}
		}
		price := fieldProductPrice.Float(reply.Record(), 0)
		lines = append(lines, domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		lineTotals = append(lineTotals, round2(price*float64(line.Quantity)))
	}

	totals := computeTotals(lineTotals, o.taxRate)
	createdAt := nowUTC()

	upstreamLines := make([]map[string]any, len(lines))
	for i, l := range lines {
		upstreamLines[i] = map[string]any{
			"id_producto":     l.ProductID,
			"cantidad":        l.Quantity,
			"precio_unitario": l.UnitPrice,
		}
	}
	reply, err := o.orders.Create(ctx, map[string]any{
		"id_usuario":   req.UserID,
		"fecha_pedido": createdAt.Format(time.RFC3339),
		"estado":       string(domain.OrderStatePending),
		"total":        totals.Total,
		"productos":    upstreamLines,
	})
	if err != nil {
		o.logger.Error("order service unreachable", "error", err)
		return nil, &domain.UpstreamError{Op: "create order", Err: domain.ErrOrderCreateFailed}
	}
	if reply.Status != 200 && reply.Status != 201 {
		return nil, &domain.UpstreamError{Op: "create order", Status: reply.Status, Err: domain.ErrOrderCreateFailed}
	}

	orderID := extractOrderID(reply.Body)
	if orderID == "" {
		orderID = orderIDFromLocation(reply.Header)
	}
	if orderID == "" {
		// The order may exist upstream at this point; surfacing the gap beats
		// masking it with a locally invented id.
		return nil, domain.ErrOrderIDMissing
	}

	order := &domain.CreatedOrder{
		OrderID:           orderID,
		State:             domain.OrderStatePending,
		Totals:            totals,
		Lines:             lines,
		DeliveryAddressID: req.AddressID,
		CreatedAt:         createdAt,
	}

	supported, detail := o.history.Write(ctx, orderID, string(domain.OrderStatePending), "order created via orchestrator")
	if supported {
		o.metrics.recordHistory(ctx, "ok")
	} else {
		o.metrics.recordHistory(ctx, "failed")
		order.Warnings = []string{detail}
		o.logger.Warn("history write failed, order kept", "order_id", orderID, "detail", detail)
	}

	response, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal created order: %w", err)
	}
	o.idem.Store(idemKey, payloadHash, response)

	o.metrics.ordersCreated.Add(ctx, 1)
	o.logger.Info("order created", "order_id", orderID, "user_id", req.UserID, "total", totals.Total)

	return &CreateOutcome{Response: response, Order: order}, nil
}
