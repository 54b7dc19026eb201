// Package version carries the build identity, injected at link time:
//
//	go build -ldflags "-X husky/internal/version.Version=v1.2.3 -X husky/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	AppName        = "husky"
	AppDescription = "A Discord secretary for land claims, todo lists and the interwebs"
	Version        = "dev"
	BuildDate      = ""
)
