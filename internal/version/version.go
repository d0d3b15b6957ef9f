package version

// Set at build time with -ldflags "-X oauth-relay/internal/version.Version=...".
var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

func GetFullVersion() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// UserAgent identifies a relay component in outbound HTTP requests.
func UserAgent(component string) string {
	return component + "/" + Version
}
