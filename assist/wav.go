package assist

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// The speech provider returns raw 16-bit mono PCM. Browsers cannot play
// that directly, so we wrap it in a minimal RIFF/WAV container before
// handing it back as a data URL.

const (
	wavChannels      = 1
	wavBitsPerSample = 16
)

// WrapPCM prepends a 44-byte WAV header to raw little-endian PCM samples.
func WrapPCM(pcm []byte, sampleRate int) []byte {
	byteRate := sampleRate * wavChannels * wavBitsPerSample / 8
	blockAlign := wavChannels * wavBitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(wavChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(wavBitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// PCMBase64ToWAVDataURL decodes a base64 PCM payload, wraps it as WAV and
// re-encodes it as an audio data URL.
func PCMBase64ToWAVDataURL(pcmB64 string, sampleRate int) (string, error) {
	pcm, err := base64.StdEncoding.DecodeString(pcmB64)
	if err != nil {
		return "", fmt.Errorf("assist provider sent undecodable audio: %w", err)
	}
	wav := WrapPCM(pcm, sampleRate)
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav), nil
}
