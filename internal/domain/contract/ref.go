package contract

import (
	"fmt"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// encodedUUIDLen is the length of a canonical UUID string. The encoded
// reference is "<uuid>-<itemID>", so the separating hyphen always sits at
// this byte offset regardless of hyphens inside either part.
const encodedUUIDLen = 36

// ItemRef identifies a specific item within a specific contract. It is the
// value a ticket stores to say which entitlement it consumed. Carried as a
// structured pair end-to-end and flattened to a string only at the storage
// and API boundaries, where the fixed-width contract UUID keeps the encoding
// reversible.
type ItemRef struct {
	ContractID uuid.UUID
	ItemID     string
}

// NewItemRef builds a reference from its parts
func NewItemRef(contractID uuid.UUID, itemID string) (ItemRef, error) {
	if contractID == uuid.Nil || itemID == "" {
		return ItemRef{}, shared.ErrInvalidReference
	}
	return ItemRef{ContractID: contractID, ItemID: itemID}, nil
}

// ParseItemRef decodes the string form "<contractID>-<itemID>". The split
// happens at the fixed UUID width, not the first hyphen, so item ids may
// never be ambiguous even though UUIDs contain hyphens themselves.
func ParseItemRef(encoded string) (ItemRef, error) {
	if len(encoded) < encodedUUIDLen+2 || encoded[encodedUUIDLen] != '-' {
		return ItemRef{}, shared.ErrInvalidReference
	}
	contractID, err := uuid.Parse(encoded[:encodedUUIDLen])
	if err != nil {
		return ItemRef{}, shared.ErrInvalidReference
	}
	itemID := encoded[encodedUUIDLen+1:]
	if itemID == "" {
		return ItemRef{}, shared.ErrInvalidReference
	}
	return ItemRef{ContractID: contractID, ItemID: itemID}, nil
}

// String returns the encoded form stored on tickets
func (r ItemRef) String() string {
	return fmt.Sprintf("%s-%s", r.ContractID, r.ItemID)
}

// IsZero returns true for the empty reference
func (r ItemRef) IsZero() bool {
	return r.ContractID == uuid.Nil && r.ItemID == ""
}
