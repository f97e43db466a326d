// Package misc keeps build time program identification.
package misc

// Values are set at build time through ldflags, see Taskfile.
var (
	appName = "hwpers"
	version = "development"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
