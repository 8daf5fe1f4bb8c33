// Package version reports the build version of the applesignin binary.
//
// Version, git commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/applesignin/version.Version=1.0.0"
//
// Missing values fall back to the VCS settings Go embeds in the binary.
package version
