// internal/version/version.go
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X gcwig/internal/version.Version=v1.2.0" ./cmd/gcwig
var Version = "dev"
