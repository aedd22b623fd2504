package startup

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"project-preview/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds the worker configuration
type Config struct {
	MetricsEnabled bool
	MetricsPort    string
}

// LoadConfig loads configuration from environment variables and logs
// the effective values.
func LoadConfig() *Config {
	printBanner()

	metricsEnabled := getEnvBool("METRICS_ENABLED", false)
	metricsPort := getEnv("METRICS_PORT", "9090")

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  METRICS_PORT:     %s", metricsPort)
	logging.Info("  RENDER_WORKERS:   %s", getEnv("RENDER_WORKERS", "(auto)"))
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	return &Config{
		MetricsEnabled: metricsEnabled,
		MetricsPort:    metricsPort,
	}
}

// LogFatal logs a fatal startup error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// LogPipelineComplete logs the total pipeline duration
func LogPipelineComplete(elapsed time.Duration) {
	logging.Info("------------------------------------------------------------")
	logging.Info("Pipeline complete in %v", elapsed)
}

func printBanner() {
	info := GetBuildInfo()
	logging.Info("project-preview %s (%s) built %s with %s on %s/%s",
		info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logging.Warn("Invalid boolean %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}
