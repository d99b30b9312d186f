package configs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		value  string
		expect color.Color
		err    string
	}{
		{"#ffffff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, ""},
		{"000000", color.NRGBA{A: 0xff}, ""},
		{"#1a2B3c", color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}, ""},
		{"#fff", nil, "'fff' is not a hex color"},
		{"#zzzzzz", nil, "'zzzzzz' is not a hex color"},
		{"", nil, "'' is not a hex color"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c, err := ParseHexColor(tt.value)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expect, c)
		})
	}
}

func TestValidate(t *testing.T) {
	defer func(c config) { Config = c }(Config)

	assert.NoError(t, Validate())

	Config.Images.NumColors = 1
	assert.Error(t, Validate())
	Config.Images.NumColors = 256

	Config.Images.Format = "bmp"
	assert.Error(t, Validate())
	Config.Images.Format = "gif"

	Config.Images.Background = "red"
	assert.Error(t, Validate())
	Config.Images.Background = "#ff0000"

	Config.Images.NumWorkers = -1
	assert.Error(t, Validate())
	Config.Images.NumWorkers = 2

	assert.NoError(t, Validate())
}
