package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Version of imshrink, set by ldflags
var Version = "0.1.0"

const (
	envPrefix = "IMSHRINK"
	envFile   = ".env"
)

// Settings for a compress run
type Settings struct {
	SourceDir  string `envconfig:"SRC_DIR" yaml:"src_dir"`
	DestDir    string `envconfig:"DST_DIR" yaml:"dst_dir"`
	Quality    int    `envconfig:"QUALITY" yaml:"quality"`
	Optimize   bool   `envconfig:"OPTIMIZE" yaml:"optimize"`
	Workers    int    `envconfig:"WORKERS" yaml:"workers"`
	StrictCase bool   `envconfig:"STRICT_CASE" yaml:"strict_case"`
	MaxWidth   uint   `envconfig:"MAX_WIDTH" yaml:"max_width"`
	MaxHeight  uint   `envconfig:"MAX_HEIGHT" yaml:"max_height"`
	Develop    bool   `envconfig:"DEVELOP" yaml:"develop"`
	ConfigFile string `ignored:"true" yaml:"-"`

	// Exts replace the default jpg, jpeg, png, gif, bmp set when not empty
	Exts []string `envconfig:"EXTS" yaml:"exts"`
}

// Defaults reproduce the layout of the original site scripts
func Defaults() Settings {
	return Settings{
		SourceDir: "images/fulls",
		DestDir:   "images/compressed",
		Quality:   30,
		Optimize:  true,
		Workers:   1,
	}
}

// Current is loaded on init
var Current = new(Settings)

func init() {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("load %s: %s", envFile, err)
	}
	if err := Load(Current, os.Getenv(envPrefix+"_CONFIG")); err != nil {
		log.Printf("load settings: %s", err)
	}
}

// Load fills s with defaults, then the yaml file if given, then environment variables
func Load(s *Settings, filename string) error {
	*s = Defaults()
	if filename != "" {
		if err := LoadFile(s, filename); err != nil {
			return err
		}
	}
	return envconfig.Process(envPrefix, s)
}

// LoadFile read settings from a yaml file over the current values
func LoadFile(s *Settings, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	s.ConfigFile = filename
	return nil
}

// InDevelop ...
func InDevelop() bool {
	return Current.Develop
}

// Usage print the environment variables to w
func Usage() error {
	return envconfig.Usage(envPrefix, Current)
}
