// Package store persists reconciled payloads per output slot.
//
// The reconciler needs the previously persisted payload to merge lifecycle
// state against; the store is that memory. Two backends:
//   - memory: in-process storage for tests and single-run CLI usage
//   - mongo: MongoDB-backed storage for service deployments
package store

import (
	"context"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// Key identifies one output slot: an owner's (source, target) pairing.
type Key struct {
	OwnerID string `bson:"owner_id"`
	SlotID  string `bson:"slot_id"`
}

// Validate checks the key's components.
func (k Key) Validate() error {
	if k.OwnerID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store key has no owner")
	}
	return errors.ValidateSlotID(k.SlotID)
}

// Store persists the reconciled payload per slot.
//
// Get returns (nil, nil) when no payload has been registered for the key;
// errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key Key) (*design.Payload, error)
	Set(ctx context.Context, key Key, p *design.Payload) error
	Delete(ctx context.Context, key Key) error
	Close(ctx context.Context) error
}
