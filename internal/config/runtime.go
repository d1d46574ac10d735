package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"modsource/internal/logging"
	"modsource/sink/kafka"
)

// Runtime holds process settings that are not part of the rules file.
type Runtime struct {
	GRPCPort    int    `koanf:"grpc_port"`
	MetricsPort int    `koanf:"metrics_port"` // 0 = disabled
	HostVersion string `koanf:"host_version"`

	Log   logging.Options `koanf:"log"`
	Kafka kafka.Config    `koanf:"kafka"`
}

// LoadRuntime merges YAML (if present) with env-vars
// (prefix `MODSOURCE__`, delimiter `__`, e.g. MODSOURCE__KAFKA__TOPIC).
func LoadRuntime(path string) (Runtime, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Runtime{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Runtime{}, fmt.Errorf("runtime schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	_ = k.Load(env.Provider("MODSOURCE__", ".", envKey), nil)

	var rt Runtime
	if err := k.Unmarshal("", &rt); err != nil {
		return rt, err
	}
	applyDefaults(&rt)
	return rt, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "MODSOURCE__")), "__", ".")
}

func applyDefaults(rt *Runtime) {
	if rt.GRPCPort == 0 {
		rt.GRPCPort = 7070
	}
	if rt.HostVersion == "" {
		rt.HostVersion = "5.0.0"
	}
	if rt.Kafka.RequiredAcks == 0 {
		rt.Kafka.RequiredAcks = 1
	}
	if rt.Kafka.Version == "" {
		rt.Kafka.Version = "2.1.0"
	}
}
