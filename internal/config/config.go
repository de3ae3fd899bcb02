// Package config resolves conversion settings from a .env file, the
// process environment and command-line flags, in increasing precedence.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvTypography        = "TYPOGRAPHY"
	EnvIgnoreOverrides   = "IGNORE_OVERRIDES"
	EnvThinSpaces        = "THIN_SPACES"
	EnvLinebreaks        = "LINEBREAKS"
	EnvRelocateSpanSpace = "RELOCATE_SPAN_SPACE"
	EnvMedia             = "MEDIA"
	EnvRaster            = "RASTER"
	EnvVector            = "VECTOR"
	EnvOutputFolder      = "IDML2HUBXML_OUTPUT_FOLDER"
	EnvScriptFolder      = "IDML2HUBXML_SCRIPT_FOLDER"
	EnvCache             = "IDML2DOCBOOK_CACHE"
)

// DefaultEnvFile is read when no other file is named.
const DefaultEnvFile = ".env"

// DefaultOutputFolder receives the idml2xml output.
const DefaultOutputFolder = "idml2hubxml"

// Config is the resolved configuration of a run.
type Config struct {
	Options      docbook.Options
	OutputFolder string // idml2xml output folder
	ScriptFolder string // folder holding idml2xml.sh
	CachePath    string // sqlite conversion cache, empty disables it
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Options:      docbook.DefaultOptions(),
		OutputFolder: DefaultOutputFolder,
	}
}

// LoadEnvFile loads path into the process environment without replacing
// variables already set. A missing default file is not an error.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.NewIO("read env file", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.NewParse("env file", path, err.Error())
	}
	return nil
}

// Load reads the env file then the environment.
func Load(envFile string) (Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return Config{}, err
	}
	return FromEnv(os.LookupEnv), nil
}

// FromEnv builds a configuration from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) Config {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	o := &cfg.Options
	o.Typography = ParseBool(get(EnvTypography))
	o.IgnoreOverrides = ParseBool(get(EnvIgnoreOverrides))
	o.ThinSpaces = ParseBool(get(EnvThinSpaces))
	o.Linebreaks = ParseBool(get(EnvLinebreaks))
	o.RelocateSpanSpace = ParseBool(get(EnvRelocateSpanSpace))
	if v := get(EnvMedia); v != "" {
		o.Media = v
	}
	o.Raster = get(EnvRaster)
	o.Vector = get(EnvVector)

	if v := get(EnvOutputFolder); v != "" {
		cfg.OutputFolder = v
	}
	cfg.ScriptFolder = get(EnvScriptFolder)
	cfg.CachePath = get(EnvCache)
	return cfg
}

// ParseBool treats any non-empty value as true unless strconv.ParseBool
// reads it as false.
func ParseBool(s string) bool {
	if s == "" {
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return true
}

// Overrides are command-line values. Empty fields leave the
// configuration unchanged; set booleans can only turn a feature on.
type Overrides struct {
	Typography        bool
	IgnoreOverrides   bool
	ThinSpaces        bool
	Linebreaks        bool
	RelocateSpanSpace bool
	Media             string
	Raster            string
	Vector            string
	OutputFolder      string
	ScriptFolder      string
	CachePath         string
}

// Apply merges o into cfg.
func (cfg Config) Apply(o Overrides) Config {
	opts := &cfg.Options
	opts.Typography = opts.Typography || o.Typography
	opts.IgnoreOverrides = opts.IgnoreOverrides || o.IgnoreOverrides
	opts.ThinSpaces = opts.ThinSpaces || o.ThinSpaces
	opts.Linebreaks = opts.Linebreaks || o.Linebreaks
	opts.RelocateSpanSpace = opts.RelocateSpanSpace || o.RelocateSpanSpace
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&opts.Media, o.Media)
	set(&opts.Raster, o.Raster)
	set(&opts.Vector, o.Vector)
	set(&cfg.OutputFolder, o.OutputFolder)
	set(&cfg.ScriptFolder, o.ScriptFolder)
	set(&cfg.CachePath, o.CachePath)
	return cfg
}

// RequireScriptFolder fails when the idml2xml script folder is unset.
func (cfg Config) RequireScriptFolder() error {
	if cfg.ScriptFolder == "" {
		return errors.NewConfig(EnvScriptFolder, "missing idml2xml script folder; set it in .env or pass --idml2hubxml-script")
	}
	return nil
}
