package cli

import (
	"os"
	"path/filepath"
)

// Paths resolves the genstudio directory layout under the user's home.
type Paths struct {
	// HomeDir is the user's home directory.
	HomeDir string
}

// NewPaths creates a Paths instance.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.genstudio).
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// HistoryDir returns the chat history database directory.
func (p *Paths) HistoryDir() string {
	return filepath.Join(p.BaseDir(), "history")
}

// MediaDir returns the default directory for generated media files.
func (p *Paths) MediaDir() string {
	return filepath.Join(p.BaseDir(), "media")
}

// EnsureDir creates the directory if needed and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
