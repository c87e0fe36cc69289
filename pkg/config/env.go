package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func EnvDurationDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Required collects the names of empty required settings so startup can
// report all of them at once.
type Required struct {
	missing []string
}

func (r *Required) NonEmpty(value, envName string) {
	if strings.TrimSpace(value) == "" {
		r.missing = append(r.missing, envName)
	}
}

func (r *Required) NonEmptyBytes(value []byte, envName string) {
	r.NonEmpty(string(value), envName)
}

func (r *Required) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return errors.New("missing required env " + strings.Join(r.missing, ", "))
}
