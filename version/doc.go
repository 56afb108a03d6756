// Package version describes the running binary. Version, commit, branch
// and build time come from -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/appkit/version.Version=1.0.0"
//
// and fall back to the Go module's VCS stamp. Print is the default printer
// of the bootstrap version path.
package version
