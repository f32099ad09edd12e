package version

// Version is reported by the backtest CLI. Release builds set it with
// -ldflags "-X github.com/rxtech-lab/argo-rotation/internal/version.Version=v0.2.0".
var Version = "main"

// GetVersion returns the build version, "main" for development builds.
func GetVersion() string {
	return Version
}
