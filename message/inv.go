package message

import (
	"bytes"

	"github.com/cjgreenaway/rubbem/internal/wire"
)

// InvMessage advertises a batch of object hashes the sender holds
// (spec.md §4.B).
type InvMessage struct {
	Hashes []InventoryVector
}

func (m *InvMessage) Command() string { return "inv" }

func (m *InvMessage) encodePayload() []byte {
	var buf []byte
	buf = wire.PutVarInt(buf, uint64(len(m.Hashes)))
	for _, h := range m.Hashes {
		buf = append(buf, h[:]...)
	}
	return buf
}

func readInv(payload []byte) (Message, error) {
	r := bytes.NewReader(payload)
	count, err := wire.ReadVarInt(r, MaxInvCount)
	if err != nil {
		return nil, err
	}
	hashes, err := readInventoryVectors(r, count)
	if err != nil {
		return nil, err
	}
	if err := checkNoMoreData(r); err != nil {
		return nil, err
	}
	return &InvMessage{Hashes: hashes}, nil
}
