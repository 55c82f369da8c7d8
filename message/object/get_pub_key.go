// Package object holds the concrete, type-and-version-dispatched object
// bodies. Only GetPubKeyV4 — an empty-payload request body — is
// implemented here; PubKey/Msg/Broadcast bodies carry the cryptographic
// constructions that are explicitly out of scope (spec.md Non-goals,
// SPEC_FULL.md Non-goals). Adding a new (type, version) pair means adding a new
// file here and a RegisterObjectBody call in its init(), never touching
// the envelope in the message package.
package object

import (
	"bytes"

	"github.com/cjgreenaway/rubbem/message"
)

func init() {
	message.RegisterObjectBody(message.ObjectTypeGetPubKey, 4, func(r *bytes.Reader) (message.ObjectBody, error) {
		return readGetPubKeyV4(r)
	})
}

// GetPubKeyV4 requests the public key material for an address. It carries
// no payload beyond the envelope fields already decoded (nonce, expiry,
// type, version, stream number).
type GetPubKeyV4 struct{}

// NewGetPubKeyV4 constructs an empty GetPubKeyV4 body.
func NewGetPubKeyV4() *GetPubKeyV4 { return &GetPubKeyV4{} }

func (b *GetPubKeyV4) ObjectType() message.ObjectType { return message.ObjectTypeGetPubKey }
func (b *GetPubKeyV4) ObjectVersion() uint64           { return 4 }
func (b *GetPubKeyV4) EncodeBody() []byte              { return nil }

func readGetPubKeyV4(r *bytes.Reader) (message.ObjectBody, error) {
	return &GetPubKeyV4{}, nil
}
