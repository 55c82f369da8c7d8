package pow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(now time.Time) Clock {
	return func() time.Time { return now }
}

// TestRoundTrip is spec.md §8's PoW round-trip property: for a body and a
// ttl within bounds, verifying a generated proof always succeeds.
func TestRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(now)

	body := []byte("a short object body")
	expiry := now.Add(2 * time.Hour)

	genCfg := GenerateConfig(clock)
	nonce, err := Generate(context.Background(), body, expiry, genCfg)
	require.NoError(t, err)

	verifyCfg := VerifyConfig(clock)
	require.NoError(t, Verify(nonce, body, expiry, verifyCfg))
}

// TestVerifyRejectsAlreadyExpired is scenario 7 from spec.md §8: an object
// whose expiry is more than PastGrace in the past is rejected.
func TestVerifyRejectsAlreadyExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(now)

	expiry := now.Add(-(ObjectExpiryCutoff + time.Hour))
	err := Verify(0, []byte("body"), expiry, VerifyConfig(clock))
	require.ErrorIs(t, err, ErrObjectAlreadyDied)
}

func TestVerifyRejectsTooLongLived(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(now)

	expiry := now.Add(MaxTTL + time.Hour)
	err := Verify(0, []byte("body"), expiry, VerifyConfig(clock))
	require.ErrorIs(t, err, ErrObjectLivesTooLong)
}

func TestGenerateRejectsOutOfRangeTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(now)

	_, err := Generate(context.Background(), []byte("body"), now.Add(MaxTTL+time.Hour), GenerateConfig(clock))
	require.ErrorIs(t, err, ErrTTLOutOfRange)
}

func TestGenerateHonorsCancellation(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fixedClock(now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, []byte("body"), now.Add(time.Hour), GenerateConfig(clock))
	require.ErrorIs(t, err, context.Canceled)
}
