// Package pow implements the proof-of-work engine that binds an object's
// body bytes and expiry to a 64-bit nonce (spec.md §4.C).
package pow

import (
	"context"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"math/big"
	"time"
)

// Protocol-wide constants (spec.md §6, SPEC_FULL.md §4.C). NonceTrialsPerByte
// and ExtraBytes are given explicitly by the spec; MaxTTL and
// ObjectExpiryCutoff supplement the spec's unvalued MAX_TTL/
// OBJECT_EXPIRY_CUTOFF constants (decided in SPEC_FULL.md, recorded in
// DESIGN.md).
const (
	NonceTrialsPerByte = 1000
	ExtraBytes         = 1000

	MaxTTL             = 28 * 24 * time.Hour
	ObjectExpiryCutoff = 3 * time.Hour

	GeneratePastGrace = 60 * time.Second
	CutoffWindow      = 300 * time.Second
)

// Clock abstracts "now" so tests can replay the literal fixtures in
// spec.md §8 deterministically, matching the teacher's own time-injection
// idiom used throughout the discovery v4 state machine (time.Now callers
// threaded through as a field rather than called directly).
type Clock func() time.Time

// Config is the immutable proof-of-work configuration (spec.md §4.C
// ProofOfWorkConfig). CutoffWindow is carried for structural parity with
// the spec's named field but, per the spec's own published target formula,
// does not feed into trial/target computation — it is reserved, not wired.
type Config struct {
	NonceTrialsPerByte uint64
	ExtraBytes         uint64
	PastGrace          time.Duration
	MaxTTL             time.Duration
	CutoffWindow       time.Duration
	Clock              Clock
}

// VerifyConfig returns the configuration used when validating an inbound
// object: a generous past-grace window tolerating realistic clock drift.
func VerifyConfig(clock Clock) Config {
	return Config{
		NonceTrialsPerByte: NonceTrialsPerByte,
		ExtraBytes:         ExtraBytes,
		PastGrace:          ObjectExpiryCutoff,
		MaxTTL:             MaxTTL,
		CutoffWindow:       CutoffWindow,
		Clock:              clock,
	}
}

// GenerateConfig returns the configuration used when minting a new proof:
// a tight past-grace window, since the caller controls the expiry it is
// about to stamp.
func GenerateConfig(clock Clock) Config {
	return Config{
		NonceTrialsPerByte: NonceTrialsPerByte,
		ExtraBytes:         ExtraBytes,
		PastGrace:          GeneratePastGrace,
		MaxTTL:             MaxTTL,
		CutoffWindow:       CutoffWindow,
		Clock:              clock,
	}
}

var (
	ErrObjectAlreadyDied  = errors.New("pow: object already died")
	ErrObjectLivesTooLong = errors.New("pow: object lives too long")
	ErrUnacceptableProof  = errors.New("pow: unacceptable proof")
	ErrTTLOutOfRange      = errors.New("pow: ttl out of range")
)

func doubleSHA512(data []byte) [64]byte {
	first := sha512.Sum512(data)
	return sha512.Sum512(first[:])
}

// target computes the scalar the first 8 bytes of the double-hash trial
// must not exceed (spec.md §4.C).
func target(bodyLen int, ttl time.Duration, cfg Config) *big.Int {
	ttlSeconds := int64(0)
	if ttl > 0 {
		ttlSeconds = int64(ttl / time.Second)
	}

	l := new(big.Int).SetInt64(int64(bodyLen))
	extra := new(big.Int).SetUint64(cfg.ExtraBytes)
	lPlusExtra := new(big.Int).Add(l, extra)

	ttlTerm := new(big.Int).Mul(big.NewInt(ttlSeconds), lPlusExtra)
	ttlTerm.Div(ttlTerm, big.NewInt(1<<16))

	denomInner := new(big.Int).Add(lPlusExtra, ttlTerm)
	denom := new(big.Int).Mul(new(big.Int).SetUint64(cfg.NonceTrialsPerByte), denomInner)
	if denom.Sign() == 0 {
		denom = big.NewInt(1)
	}

	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	return new(big.Int).Div(two64, denom)
}

// trial computes the first 8 bytes, big-endian, of D(nonce_be8||initialHash).
func trial(nonce uint64, initialHash [64]byte) uint64 {
	var buf [8 + 64]byte
	binary.BigEndian.PutUint64(buf[:8], nonce)
	copy(buf[8:], initialHash[:])
	digest := doubleSHA512(buf[:])
	return binary.BigEndian.Uint64(digest[:8])
}

// signedLen returns L from spec.md §4.C: the initial hash length (64),
// plus the 8-byte nonce, plus the body length (excluding the nonce).
func signedLen(bodyWithoutNonce []byte) int {
	return 64 + 8 + len(bodyWithoutNonce)
}

// Verify checks that nonce is a valid proof for bodyWithoutNonce bound to
// expiry, and that expiry is within the acceptable window (spec.md §4.C).
func Verify(nonce uint64, bodyWithoutNonce []byte, expiry time.Time, cfg Config) error {
	now := cfg.Clock()

	if expiry.Before(now.Add(-cfg.PastGrace)) {
		return ErrObjectAlreadyDied
	}
	if expiry.After(now.Add(cfg.MaxTTL)) {
		return ErrObjectLivesTooLong
	}

	initialHash := sha512.Sum512(bodyWithoutNonce)
	ttl := expiry.Sub(now)
	t := target(signedLen(bodyWithoutNonce), ttl, cfg)

	got := new(big.Int).SetUint64(trial(nonce, initialHash))
	if got.Cmp(t) > 0 {
		return ErrUnacceptableProof
	}
	return nil
}

// Generate searches for the smallest nonce satisfying Verify for
// bodyWithoutNonce bound to expiry, honoring ctx cancellation between
// trial batches. The search loop itself cannot be interrupted
// mid-computation (spec.md §5) — ctx is checked between trials, not during
// one, so callers that need a hard deadline should run Generate in its own
// goroutine and discard the result if ctx expires first.
func Generate(ctx context.Context, bodyWithoutNonce []byte, expiry time.Time, cfg Config) (uint64, error) {
	now := cfg.Clock()
	ttl := expiry.Sub(now)
	if ttl < 0 || ttl > cfg.MaxTTL {
		return 0, ErrTTLOutOfRange
	}

	initialHash := sha512.Sum512(bodyWithoutNonce)
	t := target(signedLen(bodyWithoutNonce), ttl, cfg)

	const batch = 1 << 14
	for nonce := uint64(0); ; nonce++ {
		if nonce%batch == 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			default:
			}
		}
		got := new(big.Int).SetUint64(trial(nonce, initialHash))
		if got.Cmp(t) <= 0 {
			return nonce, nil
		}
	}
}
