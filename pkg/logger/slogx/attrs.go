package slogx

import (
	"log/slog"
	"time"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "<nil>")
	}

	return slog.String("err", err.Error())
}

func Table(name string) slog.Attr {
	return slog.String("table", name)
}

func Version(v int64) slog.Attr {
	return slog.Int64("version", v)
}

func Step(name string) slog.Attr {
	return slog.String("step", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
