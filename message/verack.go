package message

import "bytes"

// VerackMessage is the empty-payload handshake acknowledgement.
type VerackMessage struct{}

func (m *VerackMessage) Command() string    { return "verack" }
func (m *VerackMessage) encodePayload() []byte { return nil }

func readVerack(payload []byte) (Message, error) {
	if err := checkNoMoreData(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return &VerackMessage{}, nil
}
