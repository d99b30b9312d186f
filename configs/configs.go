package configs

import (
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml"
)

// Because we don't need viper's mess for just storing configuration from
// a source.
type config struct {
	Main   configMain   `toml:"main"`
	Images configImages `toml:"images"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
	DevMode  bool   `toml:"dev_mode"`
}

type configImages struct {
	Background  string `toml:"background"`
	NumColors   int    `toml:"num_colors"`
	Format      string `toml:"format"`
	Compression string `toml:"compression"`
	NumWorkers  int    `toml:"workers"`
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable sets some default values that might be overwritten
// by a configuration file.
var Config = config{
	Main: configMain{
		LogLevel: "info",
		DevMode:  false,
	},
	Images: configImages{
		Background:  "#ffffff",
		NumColors:   256,
		Format:      "png",
		Compression: "fast",
		NumWorkers:  runtime.NumCPU(),
	},
}

// LoadConfiguration loads the configuration file.
func LoadConfiguration(configPath string) error {
	if configPath == "" {
		return nil
	}

	fd, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&Config); err != nil {
		return err
	}

	return Validate()
}

// Validate checks the configuration values.
func Validate() error {
	err := validation.ValidateStruct(&Config.Images,
		validation.Field(&Config.Images.Background,
			validation.Required, validation.By(validHexColor)),
		validation.Field(&Config.Images.NumColors,
			validation.Min(2), validation.Max(256)),
		validation.Field(&Config.Images.Format,
			validation.In("png", "gif")),
		validation.Field(&Config.Images.Compression,
			validation.In("fast", "best")),
		validation.Field(&Config.Images.NumWorkers,
			validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("invalid [images] configuration: %s", err)
	}
	return nil
}

func validHexColor(value interface{}) error {
	s, _ := value.(string)
	if _, err := ParseHexColor(s); err != nil {
		return err
	}
	return nil
}

// ParseHexColor converts a "#rrggbb" string to a color.
func ParseHexColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("'%s' is not a hex color", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a hex color", s)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// BackgroundColor returns the configured background color.
func BackgroundColor() color.Color {
	c, err := ParseHexColor(Config.Images.Background)
	if err != nil {
		return color.White
	}
	return c
}
