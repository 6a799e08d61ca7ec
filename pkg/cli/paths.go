package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the opentts directory structure
type Paths struct {
	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base opentts directory (~/.opentts)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.opentts/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// VoicesDir returns the saved-voice directory (~/.opentts/voices)
func (p *Paths) VoicesDir() string {
	return filepath.Join(p.BaseDir(), "voices")
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureVoicesDir creates the voices directory if it doesn't exist
func (p *Paths) EnsureVoicesDir() error {
	return os.MkdirAll(p.VoicesDir(), 0755)
}
