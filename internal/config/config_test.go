package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/tripplan",
		LogDir:   "/home/user/.local/share/tripplan/log",
		LogLevel: "debug",
		Store: StoreConfig{
			Type:           "redis",
			RedisAddr:      "localhost:6379",
			RedisDB:        2,
			RedisNamespace: "family",
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/home/user/.local/share/tripplan/keys/tripplan.pub",
			PrivateKeyPath: "/home/user/.local/share/tripplan/keys/tripplan.key",
		},
		Weather: WeatherConfig{APIKey: "k", BaseURL: DefaultWeatherBaseURL, TimeoutSeconds: 5},
		Server:  ServerConfig{Addr: "127.0.0.1:9000"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *original {
		t.Errorf("Read() = %+v, want %+v", got, original)
	}
}

func TestManager_Read_Sections(t *testing.T) {
	input := `
log_dir = "/tmp/log"

[store]
type = "s3"
s3_bucket = "trips"
s3_region = "eu-west-1"
s3_endpoint = "http://localhost:9000"

[encryption]
type = "test"

[weather]
api_key = "abc"
timeout_seconds = 3

[server]
addr = ":8081"
`
	m := &Manager{}
	got, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.LogDir != "/tmp/log" {
		t.Errorf("LogDir = %q, want %q", got.LogDir, "/tmp/log")
	}
	if got.Store.Type != "s3" || got.Store.S3Bucket != "trips" || got.Store.S3Endpoint != "http://localhost:9000" {
		t.Errorf("Store = %+v", got.Store)
	}
	if !got.Encryption.Enabled() {
		t.Error("Encryption.Enabled() = false, want true")
	}
	if got.Weather.APIKey != "abc" || got.Weather.TimeoutSeconds != 3 {
		t.Errorf("Weather = %+v", got.Weather)
	}
	if got.Server.Addr != ":8081" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, ":8081")
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("store = [")); err == nil {
		t.Fatal("Read() expected error for malformed TOML")
	}
}

func TestEncryptionConfig_Enabled(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"", false},
		{"none", false},
		{"age", true},
		{"test", true},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if got := (EncryptionConfig{Type: tt.typ}).Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/tripplan")

	if cfg.BaseDir != "/data/tripplan" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/tripplan")
	}
	if cfg.LogDir != "/data/tripplan/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/tripplan/log")
	}
	if cfg.Store.Type != "filesystem" {
		t.Errorf("Store.Type = %q, want %q", cfg.Store.Type, "filesystem")
	}
	if cfg.Store.FSRoot != "/data/tripplan/data" {
		t.Errorf("Store.FSRoot = %q, want %q", cfg.Store.FSRoot, "/data/tripplan/data")
	}
	if cfg.Encryption.Enabled() {
		t.Error("Encryption.Enabled() = true, want false")
	}
	if cfg.Encryption.PublicKeyPath != "/data/tripplan/keys/tripplan.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/tripplan/keys/tripplan.pub")
	}
	if cfg.Encryption.PrivateKeyPath != "/data/tripplan/keys/tripplan.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", cfg.Encryption.PrivateKeyPath, "/data/tripplan/keys/tripplan.key")
	}
	if cfg.Weather.BaseURL != DefaultWeatherBaseURL {
		t.Errorf("Weather.BaseURL = %q, want %q", cfg.Weather.BaseURL, DefaultWeatherBaseURL)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "tripplan.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tripplan.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tripplan.toml")
		cfg := NewConfig(dir)
		cfg.Store = StoreConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Store.Type != "memory" {
			t.Errorf("Store.Type = %q, want %q", got.Store.Type, "memory")
		}
		if got.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, dir)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/tripplan.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
