package util

import "testing"

type envSample struct {
	Port    string  `env:"SAMPLE_PORT" envDefault:"3000"`
	Quarter float64 `env:"SAMPLE_QUARTILE" envDefault:"0.25"`
}

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv[envSample]()
	if err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Port != "3000" || cfg.Quarter != 0.25 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseEnvIntoOverrides(t *testing.T) {
	t.Setenv("SAMPLE_QUARTILE", "0.5")
	cfg := envSample{Port: "8080"}
	if err := ParseEnvInto(&cfg); err != nil {
		t.Fatalf("ParseEnvInto: %v", err)
	}
	if cfg.Quarter != 0.5 {
		t.Fatalf("expected override, got %v", cfg.Quarter)
	}
}
