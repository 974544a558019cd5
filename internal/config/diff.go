package config

// ConfigDiff describes what changed between two configs. Log level and
// pipeline settings can be applied to a running process; everything listed
// in RestartRequired cannot.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	PipelineChanged bool
	NewPipeline     PipelineConfig

	// MaintenanceChanged is set when the maintenance interval or the
	// journal path changed. Both need a restart.
	MaintenanceChanged bool

	// RestartRequired names the changed settings that only take effect
	// after a restart, in a stable order.
	RestartRequired []string
}

// Empty reports whether nothing changed.
func (d ConfigDiff) Empty() bool {
	return !d.LogLevelChanged && !d.PipelineChanged && len(d.RestartRequired) == 0
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}
	if old.Pipeline != new.Pipeline {
		d.PipelineChanged = true
		d.NewPipeline = new.Pipeline
	}

	restart := func(changed bool, name string) {
		if changed {
			d.RestartRequired = append(d.RestartRequired, name)
		}
	}
	restart(old.Server.ListenAddr != new.Server.ListenAddr, "server.listen_addr")
	restart(!sameTLS(old.Server.TLS, new.Server.TLS), "server.tls")
	restart(old.Storage != new.Storage, "storage")
	if old.Learning != new.Learning {
		d.MaintenanceChanged = true
		restart(true, "learning")
	}
	restart(old.Observe != new.Observe, "observe")

	return d
}

func sameTLS(a, b *TLSConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
