package message

import (
	"bytes"

	"github.com/cjgreenaway/rubbem/internal/wire"
)

// GetDataMessage requests the objects behind a batch of hashes, identical
// on the wire to InvMessage but semantically a request (spec.md §4.B).
type GetDataMessage struct {
	Hashes []InventoryVector
}

func (m *GetDataMessage) Command() string { return "getdata" }

func (m *GetDataMessage) encodePayload() []byte {
	var buf []byte
	buf = wire.PutVarInt(buf, uint64(len(m.Hashes)))
	for _, h := range m.Hashes {
		buf = append(buf, h[:]...)
	}
	return buf
}

func readGetData(payload []byte) (Message, error) {
	r := bytes.NewReader(payload)
	count, err := wire.ReadVarInt(r, MaxGetDataCount)
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
	return &GetDataMessage{Hashes: hashes}, nil
}

// ChunkHashes splits hashes into chunks no larger than max, matching the
// ≤50,000-per-frame cap the respond worker must respect when emitting
// GetData for a large Inv (spec.md §4.F).
func ChunkHashes(hashes []InventoryVector, max int) [][]InventoryVector {
	if len(hashes) == 0 {
		return nil
	}
	var chunks [][]InventoryVector
	for len(hashes) > 0 {
		n := max
		if n > len(hashes) {
			n = len(hashes)
		}
		chunks = append(chunks, hashes[:n])
		hashes = hashes[n:]
	}
	return chunks
}
