package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().ListenPort, cfg.ListenPort)
	require.Equal(t, DefaultRespondChannelCapacity, cfg.RespondChannelCapacity)
	require.NotZero(t, cfg.Nonce, "finalize must fill in a random nonce")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubbem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_port: 9000
target_fanout: 3
bootstrap_nodes:
  - "1.2.3.4:8444"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 9000, cfg.ListenPort)
	require.Equal(t, 3, cfg.TargetFanout)
	require.Equal(t, []string{"1.2.3.4:8444"}, cfg.BootstrapNodes)
	require.Equal(t, Default().UserAgent, cfg.UserAgent, "unset fields keep their default")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
