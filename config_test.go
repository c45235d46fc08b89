package secauth

import (
	"testing"
	"time"
)

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Lockout.MaxFailedAttempts != 5 || cfg.Lockout.LockoutDuration != 15*time.Minute {
		t.Errorf("lockout defaults = %+v", cfg.Lockout)
	}
	if cfg.AuthCache.Capacity != 1000 || cfg.AuthCache.TTL != time.Hour {
		t.Errorf("auth cache defaults = %+v", cfg.AuthCache)
	}
	if cfg.Token.DefaultValidity != time.Hour || cfg.Token.RedisPrefix != "tok:" {
		t.Errorf("token defaults = %+v", cfg.Token)
	}
	if cfg.Session.Validity != 4*time.Hour {
		t.Errorf("session defaults = %+v", cfg.Session)
	}
	if cfg.Audit.MaxEvents != 10000 || cfg.Audit.BufferSize != 256 {
		t.Errorf("audit defaults = %+v", cfg.Audit)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Lockout: LockoutConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute},
		Session: SessionConfig{Validity: time.Hour},
	}
	cfg.applyDefaults()

	if cfg.Lockout.MaxFailedAttempts != 3 || cfg.Lockout.LockoutDuration != time.Minute {
		t.Errorf("explicit lockout overwritten: %+v", cfg.Lockout)
	}
	if cfg.Session.Validity != time.Hour {
		t.Errorf("explicit session validity overwritten: %+v", cfg.Session)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero lockout threshold", func(c *Config) { c.Lockout.MaxFailedAttempts = 0 }, true},
		{"negative lockout duration", func(c *Config) { c.Lockout.LockoutDuration = -time.Minute }, true},
		{"zero cache capacity", func(c *Config) { c.AuthCache.Capacity = 0 }, true},
		{"negative cache ttl", func(c *Config) { c.AuthCache.TTL = -time.Second }, true},
		{"zero token validity", func(c *Config) { c.Token.DefaultValidity = 0 }, true},
		{"zero session validity", func(c *Config) { c.Session.Validity = 0 }, true},
		{"zero audit retention", func(c *Config) { c.Audit.MaxEvents = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New()
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.AuthCache.TTL = -time.Second

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("Build must reject an invalid config")
	}
}
