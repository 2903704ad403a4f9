package version

// Overridden at build time with -ldflags "-X condexpr/pkg/version.Version=...".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "development"
)
