package pathcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func fakeStat(exists map[string]bool) StatFunc {
	return func(path string) (os.FileInfo, error) {
		if exists[path] {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
}

func TestDiscoverConfigFilePrefersXDG(t *testing.T) {
	xdg := "/xdg"
	home := "/home/u"
	exists := map[string]bool{
		filepath.Join(xdg, "rsvim", "rsvim.js"): true,
		filepath.Join(home, ".rsvim.ts"):        true,
	}
	got := DiscoverConfigFile(xdg, home, fakeStat(exists))
	if want := filepath.Join(xdg, "rsvim", "rsvim.js"); got != want {
		t.Fatalf("DiscoverConfigFile() = %q, want %q", got, want)
	}
}

func TestDiscoverConfigFileTSWinsOverJS(t *testing.T) {
	xdg := "/xdg"
	exists := map[string]bool{
		filepath.Join(xdg, "rsvim", "rsvim.ts"): true,
		filepath.Join(xdg, "rsvim", "rsvim.js"): true,
	}
	got := DiscoverConfigFile(xdg, "", fakeStat(exists))
	if want := filepath.Join(xdg, "rsvim", "rsvim.ts"); got != want {
		t.Fatalf("DiscoverConfigFile() = %q, want %q", got, want)
	}
}

func TestDiscoverConfigFileFallsBackToHomeDotfile(t *testing.T) {
	home := "/home/u"
	exists := map[string]bool{
		filepath.Join(home, ".rsvim.js"): true,
	}
	got := DiscoverConfigFile("", home, fakeStat(exists))
	if want := filepath.Join(home, ".rsvim.js"); got != want {
		t.Fatalf("DiscoverConfigFile() = %q, want %q", got, want)
	}
}

func TestDiscoverConfigFileNoneFound(t *testing.T) {
	got := DiscoverConfigFile("/xdg", "/home/u", fakeStat(nil))
	if got != "" {
		t.Fatalf("DiscoverConfigFile() = %q, want empty", got)
	}
}

func TestLoadReadsEnvDefaults(t *testing.T) {
	t.Setenv("RSVIM_LOG", "debug")
	t.Setenv("RSVIM_CHANNEL_BUF_SIZE", "250")
	t.Setenv("RSVIM_MUTEX_TIMEOUT_SECS", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	cfg := Load(Options{Files: []string{"a.txt"}})
	if cfg.LogFilter != "debug" {
		t.Errorf("LogFilter = %q, want debug", cfg.LogFilter)
	}
	if cfg.ChannelBufSize != 250 {
		t.Errorf("ChannelBufSize = %d, want 250", cfg.ChannelBufSize)
	}
	if cfg.MutexTimeoutSecs != 0 {
		t.Errorf("MutexTimeoutSecs = %d, want 0 (practically infinite)", cfg.MutexTimeoutSecs)
	}
	if len(cfg.Files) != 1 || cfg.Files[0] != "a.txt" {
		t.Errorf("Files = %v, want [a.txt]", cfg.Files)
	}
}
