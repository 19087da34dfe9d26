package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds the defaults the command line falls back to when a flag is
// not given. Every field can be set from the environment or a .env file.
type Config struct {
	LogLevel     string
	Output       string
	Transparency string
	Fuzz         float64
	Quality      int
	Fill         string
}

func Load() *Config {
	return &Config{
		LogLevel:     getEnv("CONTACTSHEET_LOG_LEVEL", "info"),
		Output:       getEnv("CONTACTSHEET_OUTPUT", "contactsheet.png"),
		Transparency: getEnv("CONTACTSHEET_TRANSPARENCY", "border"),
		Fuzz:         getEnvAsFloat("CONTACTSHEET_FUZZ", 0),
		Quality:      getEnvAsInt("CONTACTSHEET_QUALITY", 90),
		Fill:         getEnv("CONTACTSHEET_FILL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". An empty string is
// fully transparent.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{}, nil
	}
	s = strings.ToLower(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in colour %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour: %w", err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
