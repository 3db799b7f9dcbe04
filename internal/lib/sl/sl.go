package sl

import "log/slog"

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
