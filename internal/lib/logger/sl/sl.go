// Package sl provides small slog helpers shared across the service.
package sl

import "log/slog"

// Err wraps err as a slog attribute named "error", the calling
// convention used at every log.Error(..., "error", sl.Err(err)) site.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
