package soundgen

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elevenlabs-sdk/api"
)

func pcm(samples ...int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

type recordingStore struct {
	id, text   string
	pcm        []byte
	sampleRate int
	err        error
}

func (s *recordingStore) Store(_ context.Context, id, text string, data []byte, sampleRate int) (string, error) {
	s.id, s.text, s.pcm, s.sampleRate = id, text, data, sampleRate
	if s.err != nil {
		return "", s.err
	}
	return "/cache/" + id + ".wav", nil
}

func newTestServer(t *testing.T, requestID string, body []byte) (*api.Client, *map[string]any) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sound-generation", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("xi-api-key"))

		received = map[string]any{"output_format": r.URL.Query().Get("output_format")}
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		for k, v := range in {
			received[k] = v
		}

		if requestID != "" {
			w.Header().Set("request-id", requestID)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return api.NewClient("key", api.WithBaseURL(server.URL)), &received
}

func TestGenerateSound(t *testing.T) {
	client, received := newTestServer(t, "req-123", pcm(0, 16384, -16384, 0))
	ep := NewEndpoint(client, WithOutputSampleRate(24000))

	req := NewSoundGenerationRequest("Star Wars Light Saber parry").WithDuration(2).WithPromptInfluence(0.5)
	gc, err := ep.GenerateSound(context.Background(), req)
	require.NoError(t, err)
	defer gc.Close()

	assert.Equal(t, map[string]any{
		"output_format":    "pcm_24000",
		"text":             "Star Wars Light Saber parry",
		"duration_seconds": 2.0,
		"prompt_influence": 0.5,
	}, *received)

	assert.Equal(t, "req-123", gc.ID())
	assert.Equal(t, "Star Wars Light Saber parry", gc.Text())
	assert.Equal(t, 24000, gc.SampleRate())
	assert.Empty(t, gc.CachedPath())

	samples, err := gc.ClipSamples()
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, -0.5, 0}, samples)

	ac, err := gc.AudioClip()
	require.NoError(t, err)
	assert.Greater(t, ac.Duration(), time.Duration(0))
}

func TestGenerateSoundFallbackID(t *testing.T) {
	client, received := newTestServer(t, "", pcm(1, 2))
	ep := NewEndpoint(client, WithOutputFormat(PCM44100))

	gc, err := ep.GenerateSound(context.Background(), NewSoundGenerationRequest("rain"), Format(PCM16000))
	require.NoError(t, err)
	defer gc.Close()

	assert.Equal(t, "pcm_16000", (*received)["output_format"])
	_, err = uuid.Parse(gc.ID())
	assert.NoError(t, err)
	assert.Equal(t, 16000, gc.SampleRate())
}

func TestGenerateSoundStoresClip(t *testing.T) {
	body := pcm(5, 6, 7)
	client, _ := newTestServer(t, "req-9", body)
	store := &recordingStore{}
	ep := NewEndpoint(client, WithClipStore(store), WithOutputFormat(PCM22050))

	gc, err := ep.GenerateSound(context.Background(), &SoundGenerationRequest{Text: "thunder", Loop: true})
	require.NoError(t, err)
	defer gc.Close()

	assert.Equal(t, "req-9", store.id)
	assert.Equal(t, "thunder", store.text)
	assert.Equal(t, body, store.pcm)
	assert.Equal(t, 22050, store.sampleRate)
	assert.Equal(t, "/cache/req-9.wav", gc.CachedPath())
}

func TestGenerateSoundStoreError(t *testing.T) {
	client, _ := newTestServer(t, "req-9", pcm(1))
	ep := NewEndpoint(client, WithClipStore(&recordingStore{err: errors.New("disk full")}))

	_, err := ep.GenerateSound(context.Background(), NewSoundGenerationRequest("thunder"))

	assert.ErrorContains(t, err, "disk full")
}

func TestGenerateSoundRejectsBadRequests(t *testing.T) {
	ep := NewEndpoint(api.NewClient("key", api.WithBaseURL("http://127.0.0.1:0")))
	ctx := context.Background()

	_, err := ep.GenerateSound(ctx, NewSoundGenerationRequest("  "))
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = ep.GenerateSound(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = ep.GenerateSound(ctx, NewSoundGenerationRequest("rain"), Format("mp3_44100_128"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGenerateSoundAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"msg": "ensure this value is less than or equal to 22"}]}`))
	}))
	defer server.Close()
	ep := NewEndpoint(api.NewClient("key", api.WithBaseURL(server.URL)))

	_, err := ep.GenerateSound(context.Background(), NewSoundGenerationRequest("rain"))

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 422, apiErr.HTTPStatus)
	assert.Contains(t, apiErr.Message, "less than or equal to 22")
}

func TestGenerateSoundLogsToClientLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("request-id", "req-log")
		w.Write(pcm(1, 2))
	}))
	defer server.Close()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ep := NewEndpoint(api.NewClient("key", api.WithBaseURL(server.URL), api.WithLogger(logger)))

	gc, err := ep.GenerateSound(context.Background(), NewSoundGenerationRequest("rain"))
	require.NoError(t, err)
	defer gc.Close()

	var generated *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "generated sound" {
			generated = entry
		}
	}
	require.NotNil(t, generated)
	assert.Equal(t, "req-log", generated.Data["id"])
	assert.Equal(t, 4, generated.Data["bytes"])
}
