package build

import "fmt"

// Overridden at link time with -ldflags "-X github.com/bornholm/montage/internal/build.ShortVersion=..."
var (
	ShortVersion = "dev"
	GitRef       = "unknown"
	BuildDate    = "unknown"
)

var LongVersion = fmt.Sprintf("%s (%s, %s)", ShortVersion, GitRef, BuildDate)
