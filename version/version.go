package version

import (
	"fmt"
	"strings"
)

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild is set at link time with
// '-ldflags "-X github.com/nereidnetwork/nereidd/version.appBuild=foo"'.
// It may only contain alphanumerics and dashes; anything else is dropped
// rather than producing a malformed version string.
var appBuild string

var version string

func init() {
	version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
	if validBuildMetadata(appBuild) {
		version += "-" + appBuild
	}
}

// Version returns the application version as a properly formed string.
func Version() string {
	return version
}

func validBuildMetadata(s string) bool {
	if s == "" {
		return false
	}
	const valid = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
	for _, r := range s {
		if !strings.ContainsRune(valid, r) {
			return false
		}
	}
	return true
}
