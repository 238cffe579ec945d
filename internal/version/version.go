package version

// Set at build time via -ldflags "-X ...".
var (
	Version = "v10.5.0"
	Commit  = "unknown"
	Date    = "unknown"
)
