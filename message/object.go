package message

import (
	"bytes"
	"time"

	"github.com/cjgreenaway/rubbem/internal/wire"
)

// ObjectType is the four-way object-kind tag (spec.md §6). Encryption and
// key-management payloads (PubKey/Msg/Broadcast bodies) are intentionally
// left as extension points — see message/object and SPEC_FULL.md Non-goals.
type ObjectType uint32

const (
	ObjectTypeGetPubKey ObjectType = 0
	ObjectTypePubKey    ObjectType = 1
	ObjectTypeMsg       ObjectType = 2
	ObjectTypeBroadcast ObjectType = 3
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeGetPubKey:
		return "GetPubKey"
	case ObjectTypePubKey:
		return "PubKey"
	case ObjectTypeMsg:
		return "Msg"
	case ObjectTypeBroadcast:
		return "Broadcast"
	default:
		return "Unknown"
	}
}

// ObjectBody is the extension point for type-and-version-dispatched object
// payloads (spec.md §9: "new object kinds are added as new variants").
// Concrete bodies live under message/object and register themselves with
// RegisterObjectBody.
type ObjectBody interface {
	ObjectType() ObjectType
	ObjectVersion() uint64
	EncodeBody() []byte
}

type objectBodyDecoder func(r *bytes.Reader) (ObjectBody, error)

type objectKey struct {
	t ObjectType
	v uint64
}

var objectBodyDecoders = map[objectKey]objectBodyDecoder{}

// RegisterObjectBody installs the decoder for a (type, version) pair. It
// is called from init() in the packages implementing concrete bodies, so
// that message itself never needs to know about PubKey/Msg/Broadcast
// constructions (spec.md Non-goals).
func RegisterObjectBody(t ObjectType, version uint64, decode func(r *bytes.Reader) (ObjectBody, error)) {
	objectBodyDecoders[objectKey{t, version}] = decode
}

// ObjectMessage is the flood-filled, PoW-gated payload envelope
// (spec.md §3, §4.B). Decoding ObjectMessage only validates wire
// structure; PoW validation against (Nonce, SignedBytes, Expiry) is a
// separate step the respond worker performs (spec.md §7 — PoW failures on
// inbound objects do not tear down the connection, unlike frame/body
// errors, so they cannot live inside the generic frame decode path).
type ObjectMessage struct {
	Nonce        uint64
	Expiry       time.Time
	ObjectType   ObjectType
	Version      uint64
	StreamNumber uint64
	Body         ObjectBody

	// SignedBytes is everything in the payload after the 8-byte nonce —
	// exactly the byte range the proof of work is bound to (spec.md §4.C).
	SignedBytes []byte
}

// NewObjectMessage builds an ObjectMessage, taking the version from body
// so the envelope field and the body's own version can never drift apart.
func NewObjectMessage(nonce uint64, expiry time.Time, streamNumber uint64, body ObjectBody) *ObjectMessage {
	return &ObjectMessage{
		Nonce:        nonce,
		Expiry:       expiry,
		ObjectType:   body.ObjectType(),
		Version:      body.ObjectVersion(),
		StreamNumber: streamNumber,
		Body:         body,
	}
}

func (m *ObjectMessage) Command() string { return "object" }

func (m *ObjectMessage) encodePayload() []byte {
	var buf []byte
	buf = wire.PutUint64(buf, m.Nonce)
	buf = append(buf, EncodeObjectSignedBytes(m.Expiry, m.ObjectType, m.StreamNumber, m.Body)...)
	return buf
}

// EncodeObjectSignedBytes builds the portion of an object payload that
// follows the nonce: expiry, object type, version, stream number, body.
// Exported so pow.Generate callers can compute the bytes a nonce must
// be bound to before the nonce itself is known.
func EncodeObjectSignedBytes(expiry time.Time, objectType ObjectType, streamNumber uint64, body ObjectBody) []byte {
	var buf []byte
	buf = wire.PutTimestamp(buf, expiry)
	buf = wire.PutUint32(buf, uint32(objectType))
	buf = wire.PutVarInt(buf, body.ObjectVersion())
	buf = wire.PutVarInt(buf, streamNumber)
	buf = append(buf, body.EncodeBody()...)
	return buf
}

func readObject(payload []byte) (Message, error) {
	if len(payload) > MaxObjectPayloadLen {
		return nil, ErrPayloadTooBig
	}

	r := bytes.NewReader(payload)

	nonce, err := wire.ReadUint64(r)
	if err != nil {
		return nil, err
	}

	signedBytes := payload[len(payload)-r.Len():]

	expiry, err := wire.ReadTimestamp(r)
	if err != nil {
		return nil, err
	}
	typeCode, err := wire.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	objectType, err := parseObjectType(typeCode)
	if err != nil {
		return nil, err
	}
	version, err := wire.ReadVarInt(r, ^uint64(0))
	if err != nil {
		return nil, err
	}
	streamNumber, err := wire.ReadVarInt(r, ^uint64(0))
	if err != nil {
		return nil, err
	}

	decode, ok := objectBodyDecoders[objectKey{objectType, version}]
	if !ok {
		return nil, ErrUnknownObjectVer
	}
	body, err := decode(r)
	if err != nil {
		return nil, err
	}

	if err := checkNoMoreData(r); err != nil {
		return nil, err
	}

	return &ObjectMessage{
		Nonce:        nonce,
		Expiry:       expiry,
		ObjectType:   objectType,
		Version:      version,
		StreamNumber: streamNumber,
		Body:         body,
		SignedBytes:  signedBytes,
	}, nil
}

func parseObjectType(code uint32) (ObjectType, error) {
	switch ObjectType(code) {
	case ObjectTypeGetPubKey, ObjectTypePubKey, ObjectTypeMsg, ObjectTypeBroadcast:
		return ObjectType(code), nil
	default:
		return 0, ErrUnknownObjectType
	}
}
