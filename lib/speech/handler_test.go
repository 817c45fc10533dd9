package speech

import (
	"context"
	"encoding/json"
	"interview-platform-backend/lib/apperr"
	filestorage "interview-platform-backend/lib/file-storage"
	speechclient "interview-platform-backend/lib/speech/speech-client"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	files map[string][]byte
}

func (m *memStorage) UploadFile(ctx context.Context, folder filestorage.Folder, fileName string, body []byte, contentType string) (string, error) {
	key := string(folder) + "/" + fileName
	m.files[key] = body
	return key, nil
}

func (m *memStorage) GetFile(ctx context.Context, key string) ([]byte, error) {
	body, ok := m.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return body, nil
}

func (m *memStorage) GetFileUrl(ctx context.Context, key string) (string, error) {
	return "http://storage/" + key, nil
}

func newServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/audio/transcriptions":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			require.Equal(t, "whisper-1", r.FormValue("model"))
			require.Equal(t, "en", r.FormValue("language"))
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			body, _ := io.ReadAll(file)
			if string(body) == "silence" {
				_ = json.NewEncoder(w).Encode(map[string]string{"text": "  "})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"text": " I like Go "})
		case "/audio/speech":
			req := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req["input"] == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte("mp3:" + req["input"]))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newProvider(url string, storage filestorage.Provider) Provider {
	client := speechclient.NewClient(speechclient.Config{
		BaseUrl:  url + "/",
		APIKey:   "secret",
		SttModel: "whisper-1",
		TtsModel: "tts-1",
		TtsVoice: "alloy",
		Language: "en",
	})
	return NewProvider(client, storage, 5*time.Second)
}

func TestTranscribe(t *testing.T) {
	server := newServer(t)
	defer server.Close()
	provider := newProvider(server.URL, &memStorage{files: map[string][]byte{}})

	t.Run("распознанный текст", func(t *testing.T) {
		text, err := provider.Transcribe(context.Background(), "answer.wav", []byte("audio"))
		require.NoError(t, err)
		require.Equal(t, "I like Go", text)
	})
	t.Run("пустая расшифровка", func(t *testing.T) {
		_, err := provider.Transcribe(context.Background(), "answer.wav", []byte("silence"))
		require.True(t, apperr.Is(err, apperr.KindTranscription))
	})
	t.Run("пустой файл", func(t *testing.T) {
		_, err := provider.Transcribe(context.Background(), "answer.wav", nil)
		require.True(t, apperr.Is(err, apperr.KindTranscription))
	})
	t.Run("сервис недоступен", func(t *testing.T) {
		p := newProvider("http://127.0.0.1:1", &memStorage{files: map[string][]byte{}})
		_, err := p.Transcribe(context.Background(), "answer.wav", []byte("audio"))
		require.True(t, apperr.Is(err, apperr.KindTranscription))
	})
}

func TestSynthesize(t *testing.T) {
	server := newServer(t)
	defer server.Close()
	storage := &memStorage{files: map[string][]byte{}}
	provider := newProvider(server.URL, storage)

	t.Run("аудио сохраняется в хранилище", func(t *testing.T) {
		key, err := provider.Synthesize(context.Background(), "Tell me about yourself")
		require.NoError(t, err)
		require.Equal(t, "speech/speech.mp3", key)
		require.Equal(t, "mp3:Tell me about yourself", string(storage.files[key]))
	})
	t.Run("ошибка сервиса", func(t *testing.T) {
		_, err := provider.Synthesize(context.Background(), "fail")
		require.True(t, apperr.Is(err, apperr.KindGeneration))
	})
}
