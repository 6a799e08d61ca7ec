// Package backend provides clients for the remote TTS model services.
//
// Two services are supported, each exposing the same REST surface on its
// own port but speaking a different payload dialect:
//
//   - OpenVoice V2 (openvoice_v2, port 9280): voice extraction returns a
//     base64 float32 speaker embedding plus its tensor shape.
//   - OpenF5-TTS (openf5_tts, port 9288): there is no separate embedding;
//     the normalized reference audio itself is the voice payload and is
//     sent back verbatim at synthesis time.
//
// Both dialects hide behind the Client interface. Embeddings carry the
// model tag of the client that produced them; Synthesize rejects a
// mismatched embedding locally, before any network traffic.
package backend
