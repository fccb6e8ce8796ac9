// Package config resolves effective option values. Precedence:
// built-in defaults, then ~/.config/pomo/config.yaml, then POMO_*
// environment variables. The engines only read values; nothing in this
// core writes configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/timefmt"
)

// Option keys.
const (
	KeyWorkDuration           = "work_duration"
	KeyShortBreak             = "short_break"
	KeyLongBreak              = "long_break"
	KeyPomodorosUntilLong     = "pomodoros_until_long"
	KeyReminderInterval       = "reminder_interval"
	KeyAutoStartBreak         = "auto_start_break"
	KeyEnforcementMode        = "enforcement_mode"
	KeyDistractionThreshold   = "distraction_threshold"
	KeyRequireBreak           = "require_break"
	KeyScheduledBreakInterval = "scheduled_break_interval"
	KeySound                  = "sound"
	KeyStateDir               = "state_dir"
)

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pomo", "config.yaml"), nil
}

// Options is the read-only view of resolved configuration.
type Options struct {
	v *viper.Viper
}

// Load resolves options. configFile overrides the default config path
// when non-empty (used by tests and the --config flag).
func Load(configFile string) (*Options, error) {
	v := viper.New()

	v.SetDefault(KeyWorkDuration, "25m")
	v.SetDefault(KeyShortBreak, "5m")
	v.SetDefault(KeyLongBreak, "15m")
	v.SetDefault(KeyPomodorosUntilLong, 4)
	v.SetDefault(KeyReminderInterval, "0s")
	v.SetDefault(KeyAutoStartBreak, false)
	v.SetDefault(KeyEnforcementMode, string(domain.ModeOff))
	v.SetDefault(KeyDistractionThreshold, 3)
	v.SetDefault(KeyRequireBreak, false)
	v.SetDefault(KeyScheduledBreakInterval, "1h")
	v.SetDefault(KeySound, true)
	v.SetDefault(KeyStateDir, "~/.local/state/pomo")

	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if p, err := DefaultConfigPath(); err == nil {
			configFile = p
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", configFile, err)
			}
		}
	}

	return &Options{v: v}, nil
}

func (o *Options) seconds(key string) (int64, error) {
	raw := o.v.GetString(key)
	secs, err := timefmt.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return secs, nil
}

func (o *Options) secondsOr(key string, fallback int64) int64 {
	secs, err := o.seconds(key)
	if err != nil {
		return fallback
	}
	return secs
}

// WorkDuration returns the focus interval length in seconds.
func (o *Options) WorkDuration() int64 { return o.secondsOr(KeyWorkDuration, 1500) }

// ShortBreak returns the short break length in seconds.
func (o *Options) ShortBreak() int64 { return o.secondsOr(KeyShortBreak, 300) }

// LongBreak returns the long break length in seconds.
func (o *Options) LongBreak() int64 { return o.secondsOr(KeyLongBreak, 900) }

// PomodorosUntilLong returns the long-break cadence N.
func (o *Options) PomodorosUntilLong() int { return o.v.GetInt(KeyPomodorosUntilLong) }

// ReminderInterval returns the reminder cadence in seconds; 0 disables
// the reminder task.
func (o *Options) ReminderInterval() int64 { return o.secondsOr(KeyReminderInterval, 0) }

// AutoStartBreak reports whether stopping a work session chains
// straight into a background break.
func (o *Options) AutoStartBreak() bool { return o.v.GetBool(KeyAutoStartBreak) }

// EnforcementMode returns the configured policy level. Unknown values
// degrade to off.
func (o *Options) EnforcementMode() domain.EnforcementMode {
	raw := o.v.GetString(KeyEnforcementMode)
	if !domain.ValidMode(raw) {
		return domain.ModeOff
	}
	return domain.EnforcementMode(raw)
}

// DistractionThreshold returns the violation count at which warnings
// start escalating.
func (o *Options) DistractionThreshold() int { return o.v.GetInt(KeyDistractionThreshold) }

// RequireBreak reports whether the strict policy demands a fully
// completed break between work sessions.
func (o *Options) RequireBreak() bool { return o.v.GetBool(KeyRequireBreak) }

// ScheduledBreakInterval returns the scheduled-break daemon tick in
// seconds.
func (o *Options) ScheduledBreakInterval() int64 {
	return o.secondsOr(KeyScheduledBreakInterval, 3600)
}

// Sound reports whether notifications request a sound.
func (o *Options) Sound() bool { return o.v.GetBool(KeySound) }

// StateDir returns the root directory for persisted state, with ~
// unexpanded (infra.Paths expands it).
func (o *Options) StateDir() string { return o.v.GetString(KeyStateDir) }
