package version

// Build metadata, overridden at link time via -ldflags.
var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA of the build
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)
