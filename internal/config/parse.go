package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Values are parsed here rather than with viper's Get* helpers, which silently turn bad input
// into zero values.

func mustInt(vpr *viper.Viper, key, msg string) int {
	v, err := strconv.Atoi(strings.TrimSpace(vpr.GetString(key)))
	if err != nil {
		panic(msg)
	}
	return v
}

func mustFloat(vpr *viper.Viper, key, msg string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(vpr.GetString(key)), 64)
	if err != nil || v < 0 {
		panic(msg)
	}
	return v
}

func mustDuration(vpr *viper.Viper, key, msg string) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(vpr.GetString(key)))
	if err != nil {
		panic(msg)
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
