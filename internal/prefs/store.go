package prefs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultSaveFile is the configuration file saveconfig writes when no path
// is given. The name is historical and kept as-is; use --savefile or the
// saveconfig argument to choose another location.
const DefaultSaveFile = "~/ovirtlcli.json"

// KeptBackups is how many timestamped backups saveconfig retains in the
// backup/ directory next to the default save file.
const KeptBackups = 10

const backupTimeLayout = "20060102-15:04:05"

// SavedConfig is the JSON document saveconfig persists: enough to restore
// the shell's preferences and re-offer the last connection target.
type SavedConfig struct {
	Address  string `json:"address,omitempty"`
	Username string `json:"username,omitempty"`
	Prefs    Prefs  `json:"prefs"`
}

// Store reads and writes SavedConfig files and rotates backups when
// writing to the default location.
type Store struct {
	defaultPath string
	keep        int

	// now is stubbed in tests to produce distinct backup names.
	now func() time.Time
}

// NewStore creates a store whose default path is defaultPath (tilde
// expanded). An empty defaultPath means DefaultSaveFile.
func NewStore(defaultPath string) *Store {
	if defaultPath == "" {
		defaultPath = DefaultSaveFile
	}
	return &Store{
		defaultPath: ExpandUser(defaultPath),
		keep:        KeptBackups,
		now:         time.Now,
	}
}

// DefaultPath returns the expanded default save path.
func (s *Store) DefaultPath() string {
	return s.defaultPath
}

// ExpandUser replaces a leading ~ with the current home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// Save writes cfg to path (default path when empty) and returns the
// resolved location. Backups are only rotated when saving to the default
// location, mirroring the original tool's behavior.
func (s *Store) Save(cfg SavedConfig, path string) (string, error) {
	if path == "" {
		path = s.defaultPath
	} else {
		path = ExpandUser(path)
	}

	if path == s.defaultPath {
		if err := s.rotateBackups(); err != nil {
			return "", err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Restore loads a SavedConfig from path (default path when empty).
func (s *Store) Restore(path string) (SavedConfig, string, error) {
	return s.RestoreOver(Prefs{}, path)
}

// RestoreOver loads a SavedConfig from path (default path when empty),
// layering the file's contents over base: settings the file does not
// mention keep their base value instead of resetting.
func (s *Store) RestoreOver(base Prefs, path string) (SavedConfig, string, error) {
	if path == "" {
		path = s.defaultPath
	} else {
		path = ExpandUser(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SavedConfig{}, path, err
	}

	cfg := SavedConfig{Prefs: base}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SavedConfig{}, path, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, path, nil
}

// BackupDir returns the sibling backup directory of the default save file.
func (s *Store) BackupDir() string {
	return filepath.Join(filepath.Dir(s.defaultPath), "backup")
}

// rotateBackups copies the current default save file into the backup
// directory under a timestamped name and prunes everything beyond the
// newest KeptBackups files. A missing save file simply means no backup to
// take.
func (s *Store) rotateBackups() error {
	src, err := os.Open(s.defaultPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	backupDir := s.BackupDir()
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", backupDir, err)
	}

	name := "saveconfig-" + s.now().Format(backupTimeLayout) + ".json"
	dst, err := os.Create(filepath.Join(backupDir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	return s.pruneBackups()
}

// pruneBackups removes the oldest backups beyond the keep count. Backup
// names embed their timestamp, so lexical order is age order.
func (s *Store) pruneBackups() error {
	backups, err := filepath.Glob(filepath.Join(s.BackupDir(), "*.json"))
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))

	for _, old := range backups[min(s.keep, len(backups)):] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}
