// Package entries persists the per-account key-value pairs.
package entries

import (
	"context"
)

// Repository stores one value per (owner account, key).
type Repository interface {
	// Upsert writes value under (ownerID, key), replacing any previous value.
	// created reports whether a new row was inserted.
	Upsert(ctx context.Context, ownerID int64, key, value string) (created bool, err error)
	// Get returns the value stored under (ownerID, key) or common.ErrorNotFound.
	Get(ctx context.Context, ownerID int64, key string) (string, error)
}

// upserter abstracts the three statements an upsert is built from so both
// dialects share the same sequencing.
type upserter interface {
	update(ctx context.Context, ownerID int64, key, value string) (int64, error)
	insertIfAbsent(ctx context.Context, ownerID int64, key, value string) (int64, error)
}

// upsert tries an update first. When no row matched it inserts, letting the
// unique (owner, key) constraint arbitrate; an insert that lost the race to a
// concurrent writer is followed by a second update.
func upsert(ctx context.Context, u upserter, ownerID int64, key, value string) (bool, error) {
	n, err := u.update(ctx, ownerID, key, value)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	n, err = u.insertIfAbsent(ctx, ownerID, key, value)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	if _, err := u.update(ctx, ownerID, key, value); err != nil {
		return false, err
	}
	return false, nil
}
