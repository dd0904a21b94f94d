package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	ErrUnsupportedType = errors.New("unsupported audio type")
	ErrInvalidWAV      = errors.New("invalid wav file")
)

// DecodePCM converts signed 16-bit little-endian mono PCM recorded at
// inputSampleRate into float samples at outputSampleRate. A trailing odd
// byte is ignored. Rates <= 0 disable the conversion.
func DecodePCM(pcm []byte, inputSampleRate, outputSampleRate int) ([]float32, error) {
	samples := pcmToFloatSlice(pcm)

	if inputSampleRate <= 0 || outputSampleRate <= 0 {
		return samples, nil
	}
	return Resample(samples, inputSampleRate, outputSampleRate, 1)
}

// DecodeFile reads a cached audio file, picking the decoder from its
// extension. The clip is named after the file.
func DecodeFile(ctx context.Context, path string) (*Clip, error) {
	typ := TypeFromPath(path)
	if typ == TypeUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file; %w", err)
	}
	defer f.Close()

	clip, err := Decode(contextReader{ctx: ctx, File: f}, typ)
	if err != nil {
		return nil, err
	}
	clip.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return clip, nil
}

// Decode reads a complete audio stream of the given type.
func Decode(r io.ReadSeeker, typ Type) (*Clip, error) {
	switch typ {
	case TypeWAV:
		return decodeWAV(r)
	case TypeMPEG:
		return decodeMP3(r)
	case TypeOGGVorbis:
		return decodeOGG(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}
}

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav data; %w", err)
	}

	samples := make([]float32, len(buf.Data))
	if d.BitDepth == 8 {
		// 8-bit wav is unsigned
		for i, v := range buf.Data {
			samples[i] = float32(v-128) / 128
		}
	} else {
		scale := float32(int64(1) << (d.BitDepth - 1))
		for i, v := range buf.Data {
			samples[i] = float32(v) / scale
		}
	}

	return NewClip("", samples, int(d.NumChans), int(d.SampleRate)), nil
}

func decodeMP3(r io.Reader) (*Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to construct mp3 decoder; %w", err)
	}

	// go-mp3 always yields 16-bit stereo
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3 frames; %w", err)
	}

	return NewClip("", pcmToFloatSlice(pcm), 2, d.SampleRate()), nil
}

func decodeOGG(r io.Reader) (*Clip, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ogg vorbis; %w", err)
	}
	return NewClip("", samples, format.Channels, format.SampleRate), nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	*os.File
}

func (r contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.File.Read(p)
}
