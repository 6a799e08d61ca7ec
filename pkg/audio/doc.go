// Package audio provides an in-memory PCM buffer and the normalization
// operations needed to prepare reference audio for a TTS backend.
//
// A Buffer holds float64 samples in [-1.0, 1.0] together with its sample
// rate and channel count. Buffers are immutable: Mono and Resample return
// new buffers and never modify the receiver.
//
// The package also decodes and encodes WAV (RIFF) files, supporting 16-bit
// integer and 32-bit IEEE float PCM.
//
// Example usage:
//
//	f, _ := os.Open("reference.wav")
//	buf, err := audio.DecodeWAV(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := buf.Mono().Resample(24000)
package audio
