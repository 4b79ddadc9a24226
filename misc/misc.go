// Package misc keeps build time information.
package misc

// Overwritten at link time with -ldflags "-X fnflow/misc.version=...".
var (
	appName = "fnflow"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns application name, used for log names and temporary files.
func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
