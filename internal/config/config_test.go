package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SLACK_BOT_TOKEN", "SLACK_SIGNING_SECRET", "HOUSE_MANAGER_UID", "DEVELOPER_UID",
		"LOGLEVEL", "PORT", "SQLITE_PATH", "SLACK_COMMAND", "SLACK_API_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "housejobs.toml")
	content := `
bot_token = "xoxb-file"
signing_secret = "file-secret"
house_manager_uid = "UMANAGER"
port = "4000"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "5000")
	t.Setenv("DEVELOPER_UID", "UDEV")
	t.Setenv("LOGLEVEL", "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotToken != "xoxb-file" || cfg.HouseManagerUID != "UMANAGER" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Port != "5000" || cfg.DeveloperUID != "UDEV" || cfg.LogLevel != "10" {
		t.Errorf("env should override file: %+v", cfg)
	}
	if cfg.SQLitePath != "./jobdata.db" || cfg.Command != "/configurejobs" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := cfg.AllowedUsers(); !reflect.DeepEqual(got, []string{"UMANAGER", "UDEV"}) {
		t.Errorf("AllowedUsers = %v", got)
	}
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	_ = os.WriteFile(path, []byte("port = [unterminated"), 0o600)
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	err := Default().Validate()
	if err == nil {
		t.Fatal("expected validation errors for empty config")
	}
	for _, want := range []string{"SLACK_BOT_TOKEN", "SLACK_SIGNING_SECRET", "HOUSE_MANAGER_UID"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error %q missing %s", err, want)
		}
	}
	if got := Default().AllowedUsers(); len(got) != 0 {
		t.Errorf("AllowedUsers on empty config = %v", got)
	}
}
