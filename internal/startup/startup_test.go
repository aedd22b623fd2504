package startup

import "testing"

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("OS/Arch should not be empty")
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		enabled     string
		port        string
		wantEnabled bool
		wantPort    string
	}{
		{"Defaults", "", "", false, "9090"},
		{"Metrics on", "true", "9100", true, "9100"},
		{"Invalid bool falls back", "certainly", "", false, "9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_ENABLED", tt.enabled)
			t.Setenv("METRICS_PORT", tt.port)

			cfg := LoadConfig()

			if cfg.MetricsEnabled != tt.wantEnabled {
				t.Errorf("MetricsEnabled = %v, want %v", cfg.MetricsEnabled, tt.wantEnabled)
			}
			if cfg.MetricsPort != tt.wantPort {
				t.Errorf("MetricsPort = %q, want %q", cfg.MetricsPort, tt.wantPort)
			}
		})
	}
}
