package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{AccountURL: "http://acct.thirdlight.com", APIKey: "1234"},
		},
		{
			name:    "missing account URL",
			cfg:     Config{APIKey: "1234"},
			wantErr: true,
		},
		{
			name:    "missing API key",
			cfg:     Config{AccountURL: "http://acct.thirdlight.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.cfg.Timeouts.Request == 0 {
				t.Fatal("Validate should fill timeout defaults")
			}
		})
	}
}

func TestTimeouts_WithDefaults(t *testing.T) {
	got := Timeouts{}.WithDefaults()
	if got.Dial != 5*time.Second || got.Request != 30*time.Second || got.Upload != 120*time.Second {
		t.Fatalf("defaults = %+v", got)
	}

	custom := Timeouts{Request: time.Second}.WithDefaults()
	if custom.Request != time.Second {
		t.Fatalf("explicit Request overridden: %v", custom.Request)
	}
	if custom.Dial != 5*time.Second {
		t.Fatalf("zero Dial not defaulted: %v", custom.Dial)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "thirdlight.yaml")
	body := "account_url: http://acct.thirdlight.com\napi_key: \"1234\"\ndebug: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccountURL != "http://acct.thirdlight.com" || cfg.APIKey != "1234" || !cfg.Debug {
		t.Fatalf("loaded config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}

func TestFromFile_JSON(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "thirdlight.json")
	body := `{"account_url": "http://acct.thirdlight.com", "api_key": "1234"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccountURL != "http://acct.thirdlight.com" || cfg.APIKey != "1234" {
		t.Fatalf("loaded config = %+v", cfg)
	}
}

func TestFromFile_Missing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
