package pbi18n

// Version information for pbi18n.
// Release builds override these with ldflags:
//
//	go build -ldflags "-X github.com/blenderbox/pbi18n.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the module name.
	Name = "pbi18n"

	// Description is a short description of the module.
	Description = "PocketBase translation backend for i18n hosts"

	// Version is the semantic version of the module.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/blenderbox/pbi18n"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version with the short commit hash appended when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent to PocketBase.
func UserAgent() string {
	return Name + "/" + FullVersion()
}
