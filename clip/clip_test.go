package clip

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elevenlabs-sdk/audio"
)

func pcm(samples ...int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

func TestTextHashDeterministic(t *testing.T) {
	assert.Equal(t, TextHash("voice-1", "hello"), TextHash("voice-1", "hello"))
	assert.NotEqual(t, TextHash("voice-1", "hello"), TextHash("voice-2", "hello"))
}

func TestTextHashIsOverConcatenation(t *testing.T) {
	assert.Equal(t, TextHash("ab", "c"), TextHash("a", "bc"))
	assert.Equal(t, TextHash("", "abc"), TextHash("abc", ""))
}

func TestTextHashGUIDLayout(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "d98c1dd4-008f-04b2-e980-0998ecf8427e", TextHash("", "").String())
}

func TestTextHashTextRoundTrip(t *testing.T) {
	hash := TextHash("id", "some text")
	parsed, err := uuid.Parse(hash.String())

	assert.NoError(t, err)
	assert.Equal(t, hash, parsed)
}

func TestNewDerivesHash(t *testing.T) {
	c := New("id", "text", nil, 24000)
	defer c.Close()

	assert.Equal(t, TextHash("id", "text"), c.TextHash())
	assert.Equal(t, "id", c.ID())
	assert.Equal(t, "text", c.Text())
	assert.Equal(t, 24000, c.SampleRate())
	assert.Equal(t, audio.DefaultOutputSampleRate, c.OutputSampleRate())
}

func TestClipSamplesDecodeOnce(t *testing.T) {
	c := New("id", "text", pcm(0, 16384, -16384), 24000, WithOutputSampleRate(24000))
	defer c.Close()

	first, err := c.ClipSamples()
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, -0.5}, first)

	second, err := c.ClipSamples()
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0])
}

func TestClipSamplesConcurrent(t *testing.T) {
	c := New("id", "text", pcm(1, 2, 3, 4), 16000, WithOutputSampleRate(16000))
	defer c.Close()

	var wg sync.WaitGroup
	results := make([][]float32, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = c.ClipSamples()
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, &results[0][0], &r[0])
	}
}

func TestClipWithoutBytes(t *testing.T) {
	c := New("id", "text", nil, 24000)
	defer c.Close()

	data := c.ClipData()
	assert.NotNil(t, data)
	assert.Empty(t, data)

	samples, err := c.ClipSamples()
	assert.NoError(t, err)
	assert.Empty(t, samples)

	ac, err := c.AudioClip()
	assert.ErrorIs(t, err, ErrNoAudio)
	assert.Nil(t, ac)
	assert.Equal(t, time.Duration(0), c.Length())
}

func TestAudioClipBuiltOnce(t *testing.T) {
	c := New("clip-id", "text", pcm(0, 100, 200, 300), 8000, WithOutputSampleRate(8000))
	defer c.Close()

	first, err := c.AudioClip()
	require.NoError(t, err)
	second, err := c.AudioClip()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "clip-id", first.Name)
	assert.Equal(t, 1, first.Channels)
	assert.Equal(t, 8000, first.SampleRate)
	assert.Len(t, first.Samples, 4)
}

func TestLength(t *testing.T) {
	c := New("id", "text", pcm(make([]int16, 8000)...), 16000, WithOutputSampleRate(16000))
	defer c.Close()

	assert.Equal(t, 500*time.Millisecond, c.Length())
}

func TestCloseTwice(t *testing.T) {
	c := New("id", "text", pcm(1, 2), 8000, WithOutputSampleRate(8000))
	ac, err := c.AudioClip()
	require.NoError(t, err)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	assert.Empty(t, c.ClipData())
	_, err = c.ClipSamples()
	assert.ErrorIs(t, err, ErrClosed)

	// the playable clip is not owned by the generated clip
	kept, err := c.AudioClip()
	assert.NoError(t, err)
	assert.Same(t, ac, kept)
}

func TestFromAudio(t *testing.T) {
	ac := audio.NewClip("cached", make([]float32, 44100), 1, 44100)
	c := FromAudio("id", "text", ac, WithCachedPath("/tmp/a.wav"))
	defer c.Close()

	got, err := c.AudioClip()
	assert.NoError(t, err)
	assert.Same(t, ac, got)
	assert.Equal(t, 44100, c.SampleRate())
	assert.Equal(t, "/tmp/a.wav", c.CachedPath())
	assert.Equal(t, time.Second, c.Length())

	samples, err := c.ClipSamples()
	assert.NoError(t, err)
	assert.Empty(t, samples)
}

func TestLoadCachedAudioClipUnsupported(t *testing.T) {
	c := New("id", "text", nil, 0, WithCachedPath("/tmp/clip.flac"))
	defer c.Close()

	hook := logtest.NewGlobal()
	defer hook.Reset()

	ac, err := c.LoadCachedAudioClip(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, ac)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "/tmp/clip.flac", hook.LastEntry().Data["path"])
}

func TestShortClipResamplesToAudio(t *testing.T) {
	c := New("id", "blip", pcm(100, 200, 300, 400, 500, 600, 700, 800, 900, 1000), 24000,
		WithOutputSampleRate(48000))
	defer c.Close()

	samples, err := c.ClipSamples()
	require.NoError(t, err)
	assert.NotEmpty(t, samples)

	ac, err := c.AudioClip()
	require.NoError(t, err)
	assert.Equal(t, 48000, ac.SampleRate)
	assert.Greater(t, c.Length(), time.Duration(0))
}

func TestLoadCachedAudioClipWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cached.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, audio.PCMToWav(pcm(0, 8192, 16384), 24000, f))
	require.NoError(t, f.Close())

	c := New("id", "text", nil, 24000, WithCachedPath(path))
	defer c.Close()

	ac, err := c.LoadCachedAudioClip(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", ac.Name)
	assert.Equal(t, []float32{0, 0.25, 0.5}, ac.Samples)

	playable, err := c.AudioClip()
	assert.NoError(t, err)
	assert.Same(t, ac, playable)
}

func TestLoadCachedAudioClipMissingFile(t *testing.T) {
	c := New("id", "text", nil, 0, WithCachedPath(filepath.Join(t.TempDir(), "gone.mp3")))
	defer c.Close()

	ac, err := c.LoadCachedAudioClip(context.Background())

	assert.Error(t, err)
	assert.Nil(t, ac)
}

func TestJSONRoundTrip(t *testing.T) {
	c := New("id", "text", pcm(1), 22050, WithCachedPath("cache/x.wav"))
	defer c.Close()

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var restored GeneratedClip
	require.NoError(t, json.Unmarshal(data, &restored))
	defer restored.Close()

	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.Text(), restored.Text())
	assert.Equal(t, c.TextHash(), restored.TextHash())
	assert.Equal(t, "cache/x.wav", restored.CachedPath())
	assert.Equal(t, 22050, restored.SampleRate())
	assert.Empty(t, restored.ClipData())
}

func TestUnmarshalKeepsStoredHash(t *testing.T) {
	stored := uuid.New()
	data := []byte(`{"id":"a","text":"b","text_hash":"` + stored.String() + `"}`)

	var c GeneratedClip
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, stored, c.TextHash())

	var missing GeneratedClip
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","text":"b"}`), &missing))
	assert.Equal(t, TextHash("a", "b"), missing.TextHash())

	var bad GeneratedClip
	assert.Error(t, json.Unmarshal([]byte(`{"id":"a","text_hash":"nope"}`), &bad))
}

func TestJSONConcurrentMarshalUnmarshal(t *testing.T) {
	c := New("id", "text", nil, 24000)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := json.Marshal(c)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, c.UnmarshalJSON([]byte(`{"id":"other","text":"words","sample_rate":16000}`)))
		}()
	}
	wg.Wait()

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"other","text":"words","text_hash":"`+TextHash("other", "words").String()+`","sample_rate":16000}`, string(data))
}

func TestFromAudioNil(t *testing.T) {
	c := FromAudio("id", "text", nil)
	defer c.Close()

	assert.Equal(t, 0, c.SampleRate())
	ac, err := c.AudioClip()
	assert.ErrorIs(t, err, ErrNoAudio)
	assert.Nil(t, ac)
	assert.Equal(t, time.Duration(0), c.Length())
}
