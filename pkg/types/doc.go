// Package types defines the storage contract shared by the upgrade steps and
// the project file formats: typed values with their undefined sentinels, the
// Store interface, the project table names, and the run Config.
package types
