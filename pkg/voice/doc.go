// Package voice defines the voice embedding value type and a durable,
// crash-consistent store for named voices.
//
// An Embedding is an opaque backend-specific payload tagged with the model
// that produced it. The Store persists embeddings under a root directory:
// a single index file (index.yaml) maps each name to its metadata and
// payload file, and every voice owns one payload file. The index is always
// replaced atomically (write to a temporary file, then rename), so a
// concurrent reader or a crash observes either the old index or the new
// one, never a partial write.
package voice
