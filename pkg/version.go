package bdeseries

var (
	// Version of bdeseries.
	Version = "v0.1.0"

	// Build timestamp, set by the linker.
	Build = "n/a"
)
