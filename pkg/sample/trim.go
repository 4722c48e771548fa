package sample

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// AccessError reports a sample that could not be opened, decoded, or whose
// trim window falls outside its frames. It is recovered: the affected note
// or zone is dropped and the run continues.
type AccessError struct {
	Name string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("sample %s: %v", e.Name, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Trim opens the named sample in store, decodes it, extracts the half-open
// frame range [startFrame, endFrame) and downmixes it to a single channel
// by equal-weight averaging. Sample rate and bit depth are preserved.
// format selects the container decoder (WAV or AIFF).
func Trim(store Store, name, format string, startFrame, endFrame int64) (*audio.IntBuffer, error) {
	r, err := store.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	buf, err := decode(r, name, format)
	if err != nil {
		return nil, err
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, &AccessError{Name: name, Err: fmt.Errorf("no channels")}
	}

	totalFrames := int64(len(buf.Data) / channels)
	if startFrame < 0 || startFrame > endFrame || endFrame > totalFrames {
		return nil, &AccessError{
			Name: name,
			Err:  fmt.Errorf("trim window [%d, %d) outside available %d frames", startFrame, endFrame, totalFrames),
		}
	}

	mono := make([]int, endFrame-startFrame)
	for i := range mono {
		base := (startFrame + int64(i)) * int64(channels)
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[base+int64(ch)]
		}
		mono[i] = sum / channels
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		Data:           mono,
		SourceBitDepth: buf.SourceBitDepth,
	}, nil
}

func decode(r io.ReadSeeker, name, format string) (*audio.IntBuffer, error) {
	switch strings.ToUpper(format) {
	case "AIFF", "AIF":
		d := aiff.NewDecoder(r)
		if !d.IsValidFile() {
			return nil, &AccessError{Name: name, Err: fmt.Errorf("not a valid AIFF file")}
		}
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, &AccessError{Name: name, Err: err}
		}
		return buf, nil
	default:
		d := wav.NewDecoder(r)
		if !d.IsValidFile() {
			return nil, &AccessError{Name: name, Err: fmt.Errorf("not a valid WAV file")}
		}
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, &AccessError{Name: name, Err: err}
		}
		return buf, nil
	}
}

// WriteWAV encodes a PCM buffer as a 16-bit-default WAV file at path.
// Trimmed mono clips are written this way for the soundfont compiler.
func WriteWAV(path string, buf *audio.IntBuffer) error {
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return f.Close()
}
