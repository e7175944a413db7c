// Package pathcfg builds the single Config record threaded through the
// rest of the editor at startup: environment-derived settings and the
// discovered config-file path. Everything is read once here and carried
// by value, rather than consulted ad hoc from the environment later.
// Discovery is a first-match-wins probe, not a merge: vimjs's config
// *file* is a script the scripting runtime loads and executes, not a
// declarative settings tree this package would parse itself.
package pathcfg

import (
	"os"
	"path/filepath"
	"strconv"
)

// Options is the already-parsed CLI options record: only what affects
// editor behaviour (the list of files to open, the headless flag) ever
// reaches this layer.
type Options struct {
	Files    []string
	Headless bool
}

// Config is the single record threaded through the editor, built once at
// startup from the environment plus the discovered config-file path.
type Config struct {
	Options

	// LogFilter is the raw RSVIM_LOG expression; applog.ParseLevel
	// resolves it.
	LogFilter string

	// MutexTimeoutSecs bounds how long a mutex-style lock wait may take.
	// Zero means "practically infinite", the default.
	MutexTimeoutSecs uint64

	// ChannelBufSize sizes the runtime<->loop message channels.
	ChannelBufSize uint64

	// ConfigPath is the first discovered rsvim.ts/rsvim.js path, or "" if
	// none was found.
	ConfigPath string

	Home          string
	XDGConfigHome string
	XDGCacheHome  string
	XDGDataHome   string
}

const (
	defaultChannelBufSize = 1000
)

// Load reads the environment once and probes the config-file search
// path, returning a fully populated Config.
func Load(opts Options) Config {
	cfg := Config{
		Options:        opts,
		LogFilter:      os.Getenv("RSVIM_LOG"),
		ChannelBufSize: defaultChannelBufSize,
		Home:           os.Getenv("HOME"),
		XDGConfigHome:  os.Getenv("XDG_CONFIG_HOME"),
		XDGCacheHome:   os.Getenv("XDG_CACHE_HOME"),
		XDGDataHome:    os.Getenv("XDG_DATA_HOME"),
	}
	if v := os.Getenv("RSVIM_MUTEX_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MutexTimeoutSecs = n
		}
	}
	if v := os.Getenv("RSVIM_CHANNEL_BUF_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.ChannelBufSize = n
		}
	}
	cfg.ConfigPath = DiscoverConfigFile(cfg.XDGConfigHome, cfg.Home, osStat)
	return cfg
}

// StatFunc abstracts os.Stat so DiscoverConfigFile is unit-testable
// without touching the real filesystem.
type StatFunc func(path string) (os.FileInfo, error)

func osStat(path string) (os.FileInfo, error) { return os.Stat(path) }

// DiscoverConfigFile probes, in order, $XDG_CONFIG_HOME/rsvim/rsvim.{ts,js},
// $HOME/.rsvim/rsvim.{ts,js}, $HOME/.rsvim.{ts,js}, returning the
// first path that exists. Within a single directory the .ts variant wins
// when both exist. Returns "" if nothing is found.
func DiscoverConfigFile(xdgConfigHome, home string, stat StatFunc) string {
	if stat == nil {
		stat = osStat
	}
	var candidates []string
	if xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, "rsvim", "rsvim.ts"))
		candidates = append(candidates, filepath.Join(xdgConfigHome, "rsvim", "rsvim.js"))
	}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, ".rsvim", "rsvim.ts"))
		candidates = append(candidates, filepath.Join(home, ".rsvim", "rsvim.js"))
		candidates = append(candidates, filepath.Join(home, ".rsvim.ts"))
		candidates = append(candidates, filepath.Join(home, ".rsvim.js"))
	}
	for _, c := range candidates {
		if _, err := stat(c); err == nil {
			return c
		}
	}
	return ""
}
