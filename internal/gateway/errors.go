package gateway

import (
	"errors"
	"net/http"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
)

const (
	codeInvalidRequestBody  = "invalid_request_body"
	codeMissingUserID       = "missing_user_id"
	codeMissingAddressID    = "missing_address_id"
	codeEmptyItems          = "empty_items"
	codeInvalidQuantity     = "invalid_quantity"
	codeUserNotFound        = "user_not_found"
	codeAddressFetchFailed  = "address_fetch_failed"
	codeInvalidAddress      = "invalid_address"
	codeInvalidProduct      = "invalid_product"
	codeOrderCreateFailed   = "order_create_failed"
	codeOrderIDMissing      = "order_id_missing"
	codeOrderNotFound       = "order_not_found"
	codeForbidden           = "forbidden"
	codeCancelFailed        = "cancel_failed"
	codeIdempotencyConflict = "idempotency_conflict"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternalError       = "internal_error"
)

// mapError translates the workflow error taxonomy into an HTTP status and a
// machine-readable code. Client errors keep their specific diagnostic
// message; upstream failures surface as 502 with the failing status inside.
func mapError(err error) (int, string, string) {
	var invalidAddr *domain.InvalidAddressError
	if errors.As(err, &invalidAddr) {
		return http.StatusBadRequest, codeInvalidAddress, invalidAddr.Error()
	}
	var invalidProd *domain.InvalidProductError
	if errors.As(err, &invalidProd) {
		return http.StatusBadRequest, codeInvalidProduct, invalidProd.Error()
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, codeUserNotFound, "user not found"
	case errors.Is(err, domain.ErrAddressFetchFailed):
		return http.StatusBadRequest, codeAddressFetchFailed, "could not fetch user addresses"
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, codeInvalidAddress, err.Error()
	case errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusBadRequest, codeInvalidProduct, err.Error()
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, codeOrderNotFound, "order not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, codeForbidden, "order does not belong to user"
	case errors.Is(err, domain.ErrIdempotencyConflict):
		return http.StatusConflict, codeIdempotencyConflict, "idempotency key reused with a different payload"
	case errors.Is(err, domain.ErrOrderCreateFailed):
		return http.StatusBadGateway, codeOrderCreateFailed, err.Error()
	case errors.Is(err, domain.ErrCancelFailed):
		return http.StatusBadGateway, codeCancelFailed, err.Error()
	case errors.Is(err, domain.ErrOrderIDMissing):
		return http.StatusBadGateway, codeOrderIDMissing, "order service did not return an order id"
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway, codeUpstreamUnavailable, upstream.Error()
	}
	return http.StatusInternalServerError, codeInternalError, "internal server error"
}
