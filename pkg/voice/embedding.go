package voice

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Embedding is a cloned voice: an opaque backend-specific payload tagged
// with the originating model, the transcript used at extraction time, and
// a creation timestamp. The model tag is set once at creation and must
// never be reinterpreted by a different backend. Embedding is a value
// type and is freely copyable.
type Embedding struct {
	Model      string    `msgpack:"model"`
	Transcript string    `msgpack:"transcript"`
	CreatedAt  time.Time `msgpack:"created"`
	Payload    []byte    `msgpack:"payload"`
}

// Encode serializes the embedding for storage in a payload file.
func (e *Embedding) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}
	return data, nil
}

// DecodeEmbedding deserializes a payload file written by Encode.
func DecodeEmbedding(data []byte) (*Embedding, error) {
	var e Embedding
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	return &e, nil
}
