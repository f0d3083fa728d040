// File: cmd/version.go
package cmd

// Version is the application version, set at build time via ldflags:
// go build -ldflags "-X github.com/dvalis/opendnsctl/cmd.Version=1.2.0"
var Version = "1.0"
