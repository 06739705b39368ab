package orchestrator

import (
	"context"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
	"github.com/ccastillo/delivery-orchestrator/internal/schema"
)

// ensureUserAndAddress checks that the user exists and, when an address id is
// given, that it belongs to the user. The address collection is normalized
// first because collaborators answer with a bare list, a wrapped list, or a
// single object depending on deployment.
func (o *Orchestrator) ensureUserAndAddress(ctx context.Context, userID int, addressID *int) error {
	user, err := o.users.Get(ctx, userID)
	if err != nil || user.Status != 200 {
		return domain.ErrUserNotFound
	}

	if addressID == nil {
		return nil
	}

	addrs, err := o.users.Addresses(ctx, userID)
	if err != nil || addrs.Status != 200 {
		return domain.ErrAddressFetchFailed
	}

	list := schema.NormalizeList(addrs.Body)
	if !containsAddress(list, *addressID) {
		return &domain.InvalidAddressError{
			AddressID: *addressID,
			Available: availableAddressIDs(list),
		}
	}
	return nil
}

// containsAddress reports whether any record in the list carries the target
// id. Records whose id cannot be coerced are skipped, not errors.
func containsAddress(list []any, target int) bool {
	for _, entry := range list {
		record := schema.AsRecord(entry)
		if id, ok := fieldAddressID.Int(record); ok && id == target {
			return true
		}
	}
	return false
}

func availableAddressIDs(list []any) []int {
	ids := make([]int, 0, len(list))
	for _, entry := range list {
		record := schema.AsRecord(entry)
		if id, ok := fieldAddressID.Int(record); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
