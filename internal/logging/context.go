package logging

import "log/slog"

// WithComponent creates a logger tagged with an upgrade step or subsystem.
//
//	log := logging.WithComponent("lithology")
//	log.Info("renamed", "from", old, "to", name)
func WithComponent(name string) *slog.Logger {
	return GetLogger().With("component", name)
}
