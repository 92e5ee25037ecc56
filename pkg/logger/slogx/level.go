package slogx

import (
	"fmt"
	"log/slog"
	"strings"
)

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("parse log level %q: %v", s, err)
	}

	return level, nil
}
