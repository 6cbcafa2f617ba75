package utils

import (
	"runtime/debug"
)

const (
	unknownVersion    = "unknown"
	develBuildVersion = "(devel)"
)

// Version is set at link time with -ldflags "-X github.com/temirov/printdir/internal/utils.Version=v1.2.3".
var Version = EmptyString

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetApplicationVersion reports the printdir version from the link-time Version or the Go build info.
// It never consults the working directory, which may belong to an unrelated repository.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, buildInfoAvailable := readBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
