package voice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

const indexFileName = "index.yaml"

// Errors reported by the Store.
var (
	// ErrNotFound indicates the requested name is absent from the index.
	ErrNotFound = errors.New("voice: not found")

	// ErrInvalidName indicates a name outside the allowed charset
	// (letters, digits, underscore, hyphen; 1-64 characters).
	ErrInvalidName = errors.New("voice: invalid name")

	// ErrCorrupted indicates the index references a payload file that
	// does not exist or cannot be decoded.
	ErrCorrupted = errors.New("voice: storage corrupted")
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateName checks a voice name against the allowed charset. Validation
// happens before any filesystem access, so path traversal attempts never
// touch the disk.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("%w: %q (use letters, digits, underscore, hyphen; 1-64 chars)",
			ErrInvalidName, name)
	}
	return nil
}

// Metadata describes one persisted voice.
type Metadata struct {
	Name        string    `yaml:"name"`
	Model       string    `yaml:"model"`
	CreatedAt   time.Time `yaml:"created"`
	Transcript  string    `yaml:"transcript"`
	PayloadFile string    `yaml:"payload_file"`
}

type indexFile struct {
	Voices map[string]Metadata `yaml:"voices"`
}

// Store is the persistent catalog of named voices under one root
// directory. It is independent of which backend created a voice.
//
// Write discipline: payload file first, index second, and the index is
// replaced atomically. A Store instance is not safe for concurrent use
// within a process; across processes the atomic index replace keeps
// observers consistent and concurrent saves of the same name resolve to
// "last rename wins".
type Store struct {
	root  string
	index map[string]Metadata
}

// Open creates a Store rooted at dir, creating the directory if needed
// and loading the index if one exists.
func Open(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}

	s := &Store{root: abs, index: make(map[string]Metadata)}

	data, err := os.ReadFile(filepath.Join(abs, indexFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx indexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: decode index: %v", ErrCorrupted, err)
	}
	if idx.Voices != nil {
		s.index = idx.Voices
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Save persists the embedding under name, overwriting any existing entry.
// The payload is written to a fresh file before the index is updated, so
// an interrupted save can only leave an unreferenced payload file behind,
// never a dangling index entry.
func (s *Store) Save(name string, e *Embedding) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	data, err := e.Encode()
	if err != nil {
		return err
	}

	payloadFile := fmt.Sprintf("%s-%s.voice", name, uuid.NewString()[:8])
	payloadPath := filepath.Join(s.root, payloadFile)
	if err := writeFileSync(payloadPath, data); err != nil {
		return fmt.Errorf("write payload %s: %w", payloadFile, err)
	}

	old, existed := s.index[name]
	s.index[name] = Metadata{
		Name:        name,
		Model:       e.Model,
		CreatedAt:   e.CreatedAt,
		Transcript:  e.Transcript,
		PayloadFile: payloadFile,
	}
	if err := s.writeIndex(); err != nil {
		// Roll back: the new payload is unreferenced, remove it.
		if existed {
			s.index[name] = old
		} else {
			delete(s.index, name)
		}
		os.Remove(payloadPath)
		return err
	}

	// The new payload and index are durable; the old payload is now
	// unreachable and can go.
	if existed && old.PayloadFile != payloadFile {
		if err := os.Remove(filepath.Join(s.root, old.PayloadFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove replaced payload %s: %w", old.PayloadFile, err)
		}
	}
	return nil
}

// Load reads the embedding stored under name.
func (s *Store) Load(name string) (*Embedding, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	meta, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(s.root, meta.PayloadFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: payload file %s missing for %q",
				ErrCorrupted, meta.PayloadFile, name)
		}
		return nil, fmt.Errorf("read payload %s: %w", meta.PayloadFile, err)
	}
	e, err := DecodeEmbedding(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return e, nil
}

// List returns a snapshot of all entries ordered by name.
func (s *Store) List() []Metadata {
	out := make([]Metadata, 0, len(s.index))
	for _, meta := range s.index {
		out = append(out, meta)
	}
	slices.SortFunc(out, func(a, b Metadata) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Delete removes the named voice. The payload file may already be gone
// (manual cleanup, prior partial failure); that is tolerated and the
// index entry is removed regardless.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	meta, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if err := os.Remove(filepath.Join(s.root, meta.PayloadFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove payload %s: %w", meta.PayloadFile, err)
	}

	delete(s.index, name)
	if err := s.writeIndex(); err != nil {
		s.index[name] = meta
		return err
	}
	return nil
}

// writeIndex persists the index via write-to-temp-then-rename. Rename is
// atomic on POSIX filesystems, so readers see either the old index or the
// new one.
func (s *Store) writeIndex() error {
	data, err := yaml.Marshal(indexFile{Voices: s.index})
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, indexFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create index temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.root, indexFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
