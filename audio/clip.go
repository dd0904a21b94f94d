// Package audio turns generated and cached audio into playable clips: it
// decodes raw PCM, converts sample rates, reads WAV/MP3/Ogg Vorbis files
// and writes WAV.
package audio

import (
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultOutputSampleRate is the playback rate clips are decoded to when the
// caller does not pick one.
const DefaultOutputSampleRate = 48000

// Clip is a playable block of audio: interleaved float samples in [-1, 1].
type Clip struct {
	Name       string
	Samples    []float32
	Channels   int
	SampleRate int
}

// NewClip wraps samples without copying them.
func NewClip(name string, samples []float32, channels, sampleRate int) *Clip {
	if channels < 1 {
		channels = 1
	}
	return &Clip{
		Name:       name,
		Samples:    samples,
		Channels:   channels,
		SampleRate: sampleRate,
	}
}

// Frames is the number of samples per channel.
func (c *Clip) Frames() int {
	if c.Channels < 1 {
		return len(c.Samples)
	}
	return len(c.Samples) / c.Channels
}

// Duration is the playback length at the clip's sample rate.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	seconds := float64(c.Frames()) / float64(c.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// WriteWAV encodes the clip as a 16-bit WAV file.
func (c *Clip) WriteWAV(output io.WriteSeeker) error {
	format := &goaudio.Format{SampleRate: c.SampleRate, NumChannels: c.Channels}
	e := wav.NewEncoder(output, format.SampleRate, 16, format.NumChannels, 1) // 1 = PCM

	intBuffer := &goaudio.IntBuffer{
		Format:         format,
		Data:           floatToIntSlice(c.Samples),
		SourceBitDepth: 16,
	}
	if err := e.Write(intBuffer); err != nil {
		return err
	}

	return e.Close()
}
