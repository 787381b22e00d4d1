package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sizefit/internal/dirs"
	"sizefit/internal/model"
)

// Viper keys. Flags use the same names with '-' in place of '_'.
const (
	KeyTargetSizeMB = "target_size_mb"
	KeyAudioKbps    = "audio_kbps"
	KeyFFprobe      = "ffprobe"
	KeyProbeTimeout = "probe_timeout"
	KeyVerbose      = "verbose"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyJobs         = "jobs"
)

const (
	defaultJobs      = 2
	defaultLogFormat = "console"
)

var keys = []string{
	KeyTargetSizeMB, KeyAudioKbps, KeyFFprobe, KeyProbeTimeout,
	KeyVerbose, KeyLogLevel, KeyLogFormat, KeyJobs,
}

// FlagName returns the command-line flag bound to key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Init wires a fresh Viper with config paths, env, defaults, and flag
// bindings. Without searchPaths the per-OS config dir is used. A missing
// config file is not an error; a malformed one is.
func Init(flags *pflag.FlagSet, searchPaths ...string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyTargetSizeMB, model.DefaultTargetSizeMB)
	v.SetDefault(KeyAudioKbps, model.DefaultAudioKbps)
	v.SetDefault(KeyFFprobe, "")
	v.SetDefault(KeyProbeTimeout, time.Duration(0))
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFormat, defaultLogFormat)
	v.SetDefault(KeyJobs, defaultJobs)

	if len(searchPaths) == 0 {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			searchPaths = []string{cfgDir}
		}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: SIZEFIT_*
	v.SetEnvPrefix("SIZEFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, k := range keys {
			f := flags.Lookup(FlagName(k))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(k, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", f.Name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config: %v", model.ErrUsage, err)
		}
	}
	return v, nil
}

// Resolve reads the layered values back out of v and validates them.
func Resolve(v *viper.Viper) (model.Options, error) {
	opts := model.Options{
		TargetSizeMB: v.GetFloat64(KeyTargetSizeMB),
		AudioKbps:    v.GetInt(KeyAudioKbps),
		FFprobePath:  strings.TrimSpace(v.GetString(KeyFFprobe)),
		ProbeTimeout: v.GetDuration(KeyProbeTimeout),
		Verbose:      v.GetBool(KeyVerbose),
		LogLevel:     strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:    strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Jobs:         v.GetInt(KeyJobs),
	}

	if !(opts.TargetSizeMB > 0) {
		return model.Options{}, fmt.Errorf("%w: invalid --target-size-mb: %v (must be > 0)", model.ErrUsage, v.Get(KeyTargetSizeMB))
	}
	if opts.AudioKbps < 0 {
		return model.Options{}, fmt.Errorf("%w: invalid --audio-kbps: %d (must be >= 0)", model.ErrUsage, opts.AudioKbps)
	}
	if opts.ProbeTimeout < 0 {
		return model.Options{}, fmt.Errorf("%w: invalid --probe-timeout: %s", model.ErrUsage, opts.ProbeTimeout)
	}
	switch opts.LogFormat {
	case "":
		opts.LogFormat = defaultLogFormat
	case "console", "json":
	default:
		return model.Options{}, fmt.Errorf("%w: invalid --log-format: %q (valid: console|json)", model.ErrUsage, opts.LogFormat)
	}
	if opts.Jobs <= 0 {
		opts.Jobs = defaultJobs
	}
	return opts, nil
}
