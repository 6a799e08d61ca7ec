package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// DecodeWAV reads a RIFF/WAVE stream into a Buffer. 16-bit integer and
// 32-bit IEEE float PCM are supported; other encodings fail with
// ErrInvalidFormat.
func DecodeWAV(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrInvalidFormat)
	}

	var (
		format   uint16
		channels int
		rate     int
		bits     int
		haveFmt  bool
		pcm      []byte
	)

	// Walk the chunk list. Chunks are 2-byte aligned.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrInvalidFormat, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrInvalidFormat)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrInvalidFormat)
	}
	if pcm == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrInvalidFormat)
	}
	if channels < 1 || rate < 1 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, channels, rate)
	}

	var samples []float64
	switch {
	case format == wavFormatPCM && bits == 16:
		if len(pcm)%2 != 0 {
			return nil, fmt.Errorf("%w: odd 16-bit data length", ErrInvalidFormat)
		}
		samples = make([]float64, len(pcm)/2)
		for i := range samples {
			s := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float64(s) / 32768.0
		}
	case format == wavFormatFloat && bits == 32:
		if len(pcm)%4 != 0 {
			return nil, fmt.Errorf("%w: misaligned float data length", ErrInvalidFormat)
		}
		samples = make([]float64, len(pcm)/4)
		for i := range samples {
			u := binary.LittleEndian.Uint32(pcm[i*4 : i*4+4])
			samples[i] = float64(math.Float32frombits(u))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported encoding (format=%d, bits=%d)",
			ErrInvalidFormat, format, bits)
	}

	return New(samples, rate, channels)
}

// EncodeWAV writes the buffer as a 16-bit integer PCM WAV stream. Samples
// outside [-1.0, 1.0] are clipped.
func EncodeWAV(w io.Writer, b *Buffer) error {
	dataLen := len(b.Samples()) * 2
	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(b.Channels()))
	binary.Write(&buf, binary.LittleEndian, uint32(b.SampleRate()))
	byteRate := b.SampleRate() * b.Channels() * 2
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(b.Channels()*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range b.Samples() {
		v := int16(math.Round(math.Max(-1.0, math.Min(1.0, s)) * 32767.0))
		binary.Write(&buf, binary.LittleEndian, v)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}
