package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// TestParseBool verifies the environment boolean rule.
func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"f", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"on", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseBool(tt.in); got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestDefault verifies the settings used without any configuration.
func TestDefault(t *testing.T) {
	cfg := FromEnv(lookupFrom(nil))
	if cfg.Options.Media != "Links" {
		t.Errorf("Media = %q, want Links", cfg.Options.Media)
	}
	if cfg.OutputFolder != DefaultOutputFolder {
		t.Errorf("OutputFolder = %q", cfg.OutputFolder)
	}
	if cfg.Options.Typography || cfg.Options.Linebreaks || cfg.ScriptFolder != "" || cfg.CachePath != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Options.NodesToRemove) != 1 || cfg.Options.NodesToRemove[0] != "info" {
		t.Errorf("NodesToRemove = %v", cfg.Options.NodesToRemove)
	}
}

// TestFromEnv verifies that every key is read.
func TestFromEnv(t *testing.T) {
	cfg := FromEnv(lookupFrom(map[string]string{
		EnvTypography:        "1",
		EnvIgnoreOverrides:   "true",
		EnvThinSpaces:        "yes",
		EnvLinebreaks:        "0",
		EnvRelocateSpanSpace: "1",
		EnvMedia:             "images",
		EnvRaster:            "jpg",
		EnvVector:            " svg ",
		EnvOutputFolder:      "out",
		EnvScriptFolder:      "/opt/idml2xml",
		EnvCache:             "cache.db",
	}))
	o := cfg.Options
	if !o.Typography || !o.IgnoreOverrides || !o.ThinSpaces || o.Linebreaks || !o.RelocateSpanSpace {
		t.Errorf("booleans = %+v", o)
	}
	if o.Media != "images" || o.Raster != "jpg" || o.Vector != "svg" {
		t.Errorf("media = %q %q %q", o.Media, o.Raster, o.Vector)
	}
	if cfg.OutputFolder != "out" || cfg.ScriptFolder != "/opt/idml2xml" || cfg.CachePath != "cache.db" {
		t.Errorf("paths = %+v", cfg)
	}
}

// TestApply verifies that flags take precedence over the environment.
func TestApply(t *testing.T) {
	cfg := FromEnv(lookupFrom(map[string]string{
		EnvMedia:        "images",
		EnvScriptFolder: "/env/script",
	}))
	cfg = cfg.Apply(Overrides{
		Typography:   true,
		Media:        "Links2",
		ScriptFolder: "/flag/script",
		Raster:       "png",
	})
	if !cfg.Options.Typography {
		t.Error("Typography flag ignored")
	}
	if cfg.Options.Media != "Links2" || cfg.ScriptFolder != "/flag/script" || cfg.Options.Raster != "png" {
		t.Errorf("Apply() = %+v", cfg)
	}
	if cfg.OutputFolder != DefaultOutputFolder {
		t.Errorf("OutputFolder = %q, want unchanged", cfg.OutputFolder)
	}
}

// TestRequireScriptFolder verifies the configuration error.
func TestRequireScriptFolder(t *testing.T) {
	err := Default().RequireScriptFolder()
	var ce *errors.ConfigError
	if !errors.As(err, &ce) || ce.Key != EnvScriptFolder {
		t.Errorf("RequireScriptFolder() = %v", err)
	}
	if !errors.Is(err, errors.ErrConfig) {
		t.Error("error does not unwrap to ErrConfig")
	}
	cfg := Default().Apply(Overrides{ScriptFolder: "/x"})
	if err := cfg.RequireScriptFolder(); err != nil {
		t.Errorf("RequireScriptFolder() = %v", err)
	}
}

// TestLoadEnvFile verifies .env loading and precedence of the process
// environment.
func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "MEDIA=fromfile\nRASTER=webp\n# comment\nIDML2HUBXML_OUTPUT_FOLDER=\"quoted dir\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMedia, "fromenv")
	t.Setenv(EnvRaster, "")
	os.Unsetenv(EnvRaster)
	t.Setenv(EnvOutputFolder, "")
	os.Unsetenv(EnvOutputFolder)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Options.Media != "fromenv" {
		t.Errorf("Media = %q, want process value", cfg.Options.Media)
	}
	if cfg.Options.Raster != "webp" {
		t.Errorf("Raster = %q, want file value", cfg.Options.Raster)
	}
	if cfg.OutputFolder != "quoted dir" {
		t.Errorf("OutputFolder = %q", cfg.OutputFolder)
	}
}

// TestLoadEnvFileMissing verifies that only an explicit file must exist.
func TestLoadEnvFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(default) = %v", err)
	}
	var ioErr *errors.IOError
	if err := LoadEnvFile("missing.env"); !errors.As(err, &ioErr) {
		t.Errorf("LoadEnvFile(missing) = %v, want IOError", err)
	}
}
