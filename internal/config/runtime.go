package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Runtime struct {
	HTTPAddr          string `yaml:"http_addr"`
	CacheMaxItems     int    `yaml:"cache_max_items"`
	ObsBuffer         int    `yaml:"obs_buffer"`
	PreserveStructure bool   `yaml:"preserve_structure"`
	PlaybackSpeedMS   int    `yaml:"playback_speed_ms"`
}

// Load reads defaults, then an optional YAML file named by LOGIC_CONFIG_FILE,
// then environment overrides. Env wins over file.
func Load() Runtime {
	r := Runtime{
		HTTPAddr:        ":8080",
		CacheMaxItems:   1024,
		ObsBuffer:       4096,
		PlaybackSpeedMS: 500,
	}

	if path := os.Getenv("LOGIC_CONFIG_FILE"); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(raw, &r)
		}
	}

	r.HTTPAddr = getenv("LOGIC_HTTP_ADDR", r.HTTPAddr)
	r.CacheMaxItems = getenvInt("LOGIC_CACHE_MAX_ITEMS", r.CacheMaxItems, 1)
	r.ObsBuffer = getenvInt("LOGIC_OBS_BUFFER", r.ObsBuffer, 1)
	r.PreserveStructure = getenvBool("LOGIC_PRESERVE_STRUCTURE", r.PreserveStructure)
	r.PlaybackSpeedMS = getenvInt("LOGIC_PLAYBACK_SPEED_MS", r.PlaybackSpeedMS, 1)

	return r
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
