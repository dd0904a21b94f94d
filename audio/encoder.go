package audio

import (
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// PCMToWav writes 16-bit little-endian mono PCM to output as a WAV file.
func PCMToWav(pcm []byte, sampleRate int, output io.WriteSeeker) error {
	format := &goaudio.Format{SampleRate: sampleRate, NumChannels: 1}
	e := wav.NewEncoder(output, format.SampleRate, 16, format.NumChannels, 1) // 16 is the bit depth

	intBuffer := &goaudio.IntBuffer{
		Format:         format,
		Data:           pcmToIntSlice(pcm),
		SourceBitDepth: 16,
	}
	if err := e.Write(intBuffer); err != nil {
		return err
	}

	return e.Close()
}
