package message

import (
	"crypto/sha512"
	"errors"
)

// HashObject computes the content-addressed InventoryVector for an object
// payload: the first 32 bytes of the double-SHA-512 digest of the full
// object payload (nonce included), matching the same double-hash
// construction the proof-of-work trial uses (spec.md §4.C, §4.E).
func HashObject(m *ObjectMessage) InventoryVector {
	payload := m.encodePayload()
	first := sha512.Sum512(payload)
	second := sha512.Sum512(first[:])
	var out InventoryVector
	copy(out[:], second[:InventoryVectorLen])
	return out
}

// EncodeObjectPayload returns the raw object-command payload for m, the
// same bytes the inventory store keys its content against (spec.md §4.E).
func EncodeObjectPayload(m *ObjectMessage) []byte {
	return m.encodePayload()
}

// DecodeObjectPayload parses a stored object-command payload back into an
// ObjectMessage, for re-emitting an object previously handed to
// persist.Inventory.Insert in response to a GetData (spec.md §4.F).
func DecodeObjectPayload(payload []byte) (*ObjectMessage, error) {
	m, err := readObject(payload)
	if err != nil {
		return nil, err
	}
	obj, ok := m.(*ObjectMessage)
	if !ok {
		return nil, errors.New("message: decoded payload was not an object") // unreachable: readObject only ever returns *ObjectMessage on success
	}
	return obj, nil
}
