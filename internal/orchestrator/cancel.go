package orchestrator

import (
	"context"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
)

// CancelOrder cancels an order on behalf of the requesting user. Ownership is
// required, not just existence; the stored order may name its owner under any
// of several keys. Any prior state is accepted; there is no transition guard
// beyond existence and ownership. A history failure after the state change
// succeeded is reported as a warning, never by reverting the cancellation.
func (o *Orchestrator) CancelOrder(ctx context.Context, orderID string, userID int) (*domain.CancelledOrder, error) {
	reply, err := o.orders.Get(ctx, orderID)
	if err != nil || reply.Status != 200 {
		return nil, domain.ErrOrderNotFound
	}

	order := reply.Record()
	owner, ok := fieldOrderOwner.Int(order)
	if !ok || owner != userID {
		return nil, domain.ErrForbidden
	}
	priorState := fieldOrderState.String(order, string(domain.OrderStatePending))

	upd, err := o.orders.UpdateState(ctx, orderID, string(domain.OrderStateCancelled))
	if err != nil {
		o.logger.Error("order service unreachable", "error", err, "order_id", orderID)
		return nil, &domain.UpstreamError{Op: "cancel order", Err: domain.ErrCancelFailed}
	}
	if upd.Status != 200 {
		return nil, &domain.UpstreamError{Op: "cancel order", Status: upd.Status, Err: domain.ErrCancelFailed}
	}

	cancelled := &domain.CancelledOrder{
		OrderID: orderID,
		State:   domain.OrderStateCancelled,
	}

	supported, detail := o.history.Write(ctx, orderID, string(domain.OrderStateCancelled), "cancellation requested by user")
	if supported {
		o.metrics.recordHistory(ctx, "ok")
	} else {
		o.metrics.recordHistory(ctx, "failed")
		cancelled.Warnings = []string{detail}
	}

	o.metrics.ordersCancelled.Add(ctx, 1)
	o.logger.Info("order cancelled", "order_id", orderID, "user_id", userID, "prior_state", priorState)

	return cancelled, nil
}
