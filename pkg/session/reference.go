package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReference indicates a reference argument that does not follow
// the "file.wav;transcript" form.
var ErrInvalidReference = errors.New("session: invalid reference")

// Reference is a validated (audio path, transcript) pair. It exists only
// for the duration of a LoadReference call.
type Reference struct {
	Path       string
	Transcript string
}

// ParseReference parses the "file.wav;transcript text" argument form.
// Only the first semicolon separates; the transcript may contain more.
// Both sides are trimmed and must be non-empty.
func ParseReference(s string) (Reference, error) {
	path, transcript, found := strings.Cut(s, ";")
	if !found {
		return Reference{}, fmt.Errorf("%w: missing semicolon separator (expected \"file.wav;transcript\")",
			ErrInvalidReference)
	}
	path = strings.TrimSpace(path)
	transcript = strings.TrimSpace(transcript)
	if path == "" {
		return Reference{}, fmt.Errorf("%w: empty audio path", ErrInvalidReference)
	}
	if transcript == "" {
		return Reference{}, fmt.Errorf("%w: empty transcript", ErrInvalidReference)
	}
	return Reference{Path: path, Transcript: transcript}, nil
}
