// Package config defines the recognized configuration surface (spec.md
// §6) and loads it from a YAML file. No option is read from CLI flags.
package config

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"
)

// Config is the recognized option set (spec.md §6).
type Config struct {
	// ListenPort is reported as the self-endpoint port in outbound Version
	// frames.
	ListenPort uint16 `yaml:"listen_port"`

	// Nonce is the 8-byte self-connection detector placed in outbound
	// Version frames. If zero, a random one is generated on every Load; it
	// is not written back to the file.
	Nonce uint64 `yaml:"nonce"`

	// UserAgent is the ASCII string placed in outbound Version frames.
	UserAgent string `yaml:"user_agent"`

	// TargetFanout is the desired concurrent connection count maintained
	// by the peer connector.
	TargetFanout int `yaml:"target_fanout"`

	// BootstrapNodes seeds the known-nodes store when it is empty at
	// startup.
	BootstrapNodes []string `yaml:"bootstrap_nodes"`

	// RespondChannelCapacity bounds the byte-weighted state→respond
	// channel (spec.md §4.H). Expressed as a datasize.ByteSize
	// (github.com/c2h5oh/datasize, the teacher's own dependency) so
	// operators write "20MB" instead of a raw integer in the YAML file.
	RespondChannelCapacity datasize.ByteSize `yaml:"respond_channel_capacity"`

	// LogLevel is one of trace/debug/info/warn/error.
	LogLevel string `yaml:"log_level"`
}

// DefaultRespondChannelCapacity is the 20,000,000-byte cap spec.md §4.F
// names explicitly.
const DefaultRespondChannelCapacity = 20_000_000 * datasize.B

// Default returns a Config with every field at its protocol-mandated or
// operationally reasonable default.
func Default() Config {
	return Config{
		ListenPort:             8444,
		UserAgent:              "/rubbem:0.1.0/",
		TargetFanout:           8,
		RespondChannelCapacity: DefaultRespondChannelCapacity,
		LogLevel:               "info",
	}
}

// Load reads a YAML config file over Default(): fields absent from the file
// keep their defaults, and an explicit zero for respond_channel_capacity,
// user_agent, target_fanout or log_level is replaced by the default; other
// explicit zeros are kept. A missing file is not an error — the defaults
// apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return finalize(cfg)
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.RespondChannelCapacity == 0 {
		cfg.RespondChannelCapacity = DefaultRespondChannelCapacity
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = Default().UserAgent
	}
	if cfg.TargetFanout == 0 {
		cfg.TargetFanout = Default().TargetFanout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}

	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	if cfg.Nonce == 0 {
		n, err := randomNonce()
		if err != nil {
			return Config{}, fmt.Errorf("config: generate nonce: %w", err)
		}
		cfg.Nonce = n
	}
	return cfg, nil
}

func randomNonce() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
