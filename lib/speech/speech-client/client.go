package speechclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	transcriptionsPath = "/audio/transcriptions"
	speechPath         = "/audio/speech"
)

// Provider клиент OpenAI-совместимого API распознавания и синтеза речи
type Provider interface {
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Config struct {
	BaseUrl  string
	APIKey   string
	SttModel string
	TtsModel string
	TtsVoice string
	Language string
}

func NewClient(cfg Config) Provider {
	return impl{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type impl struct {
	cfg    Config
	client *http.Client
}

type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func (i impl) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	uri := strings.TrimRight(i.cfg.BaseUrl, "/") + transcriptionsPath
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err = part.Write(audio); err != nil {
		return "", err
	}
	_ = writer.WriteField("model", i.cfg.SttModel)
	if i.cfg.Language != "" {
		_ = writer.WriteField("language", i.cfg.Language)
	}
	if err = writer.Close(); err != nil {
		return "", err
	}

	r, err := http.NewRequestWithContext(ctx, "POST", uri, body)
	if err != nil {
		return "", err
	}
	r.Header.Set("Content-Type", writer.FormDataContentType())
	logger := log.
		WithField("external_request", uri).
		WithField("file_name", fileName)

	respBody, err := i.sendRequest(logger, r)
	if err != nil {
		return "", err
	}
	resp := transcriptionResponse{}
	if err = json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.Wrap(err, "ошибка десериализации ответа распознавания речи")
	}
	if resp.Error != nil {
		return "", errors.Errorf("ошибка распознавания речи: %s", resp.Error.Message)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (i impl) Synthesize(ctx context.Context, text string) ([]byte, error) {
	uri := strings.TrimRight(i.cfg.BaseUrl, "/") + speechPath
	reqBody, err := json.Marshal(speechRequest{
		Model:          i.cfg.TtsModel,
		Input:          text,
		Voice:          i.cfg.TtsVoice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сериализации запроса синтеза речи")
	}
	r, err := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	logger := log.
		WithField("external_request", uri)
	return i.sendRequest(logger, r)
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request) ([]byte, error) {
	if i.cfg.APIKey != "" {
		r.Header.Set("Authorization", "Bearer "+i.cfg.APIKey)
	}
	resp, err := i.client.Do(r)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки запроса в сервис речи")
		return nil, errors.Wrap(err, "ошибка отправки запроса в сервис речи")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения ответа сервиса речи")
	}
	if resp.StatusCode != http.StatusOK {
		logger.
			WithField("status", resp.StatusCode).
			WithField("response_body", string(body)).
			Error("сервис речи вернул ошибку")
		return nil, errors.New(fmt.Sprintf("сервис речи вернул статус %d", resp.StatusCode))
	}
	return body, nil
}
