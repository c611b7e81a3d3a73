package infra

import "testing"

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Backend.BaseURL = "https://api.example.com/admin"
		cfg.Console.PageSize = 50
		return cfg
	}

	t.Run("accepts http and https", func(t *testing.T) {
		cfg := valid()
		if err := cfg.Validate(); err != nil {
			t.Errorf("https: %v", err)
		}
		cfg.Backend.BaseURL = "http://localhost:5000/api"
		if err := cfg.Validate(); err != nil {
			t.Errorf("http: %v", err)
		}
	})

	t.Run("rejects missing scheme", func(t *testing.T) {
		cfg := valid()
		cfg.Backend.BaseURL = "localhost:5000"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for schemeless URL")
		}
		cfg.Backend.BaseURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("rejects oversized page size", func(t *testing.T) {
		cfg := valid()
		cfg.Console.PageSize = 500
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for page size over 100")
		}
	})
}
