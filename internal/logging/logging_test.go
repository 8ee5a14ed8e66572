package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("LOGS_FOLDER", dir)
	t.Cleanup(func() {
		log.Logger = zerolog.New(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	if err := Init(true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}

	log.Info().Str("probe", "ok").Msg("logging test")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write probe should be removed")
	}
}

func TestInit_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOGS_FOLDER", filepath.Join(blocker, "logs"))
	t.Cleanup(func() {
		log.Logger = zerolog.New(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	if err := Init(false); err == nil {
		t.Error("expected an error when the log directory cannot be created")
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", zerolog.GlobalLevel())
	}
}

func TestDir(t *testing.T) {
	tests := []struct {
		name     string
		logs     string
		dataPath string
		exeDir   string
		want     string
	}{
		{"explicit folder", "/var/log/flow", "/srv/flow", "/opt/bin", "/var/log/flow"},
		{"data path", "", "/srv/flow", "/opt/bin", filepath.Join("/srv/flow", "logs")},
		{"binary directory", "", "", "/opt/bin", filepath.Join("/opt/bin", "logs")},
		{"working directory", "", "", "", "logs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOGS_FOLDER", tt.logs)
			t.Setenv("DATA_PATH", tt.dataPath)
			if got := Dir(tt.exeDir); got != tt.want {
				t.Errorf("Dir(%q) = %q, want %q", tt.exeDir, got, tt.want)
			}
		})
	}
}

func TestInit_HonoursDataPath(t *testing.T) {
	dataPath := t.TempDir()
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("DATA_PATH", dataPath)
	t.Cleanup(func() {
		log.Logger = zerolog.New(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	if err := Init(false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	log.Info().Msg("data path test")

	if _, err := os.Stat(filepath.Join(dataPath, "logs", FileName)); err != nil {
		t.Errorf("log file not under DATA_PATH: %v", err)
	}
}
