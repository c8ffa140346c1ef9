package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("munson %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent is sent on every request issued by the HTTP transport.
func UserAgent() string {
	return "munson/" + Version
}
