package speech

import (
	"context"
	"interview-platform-backend/config"
	"interview-platform-backend/lib/apperr"
	filestorage "interview-platform-backend/lib/file-storage"
	speechclient "interview-platform-backend/lib/speech/speech-client"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Transcribe распознавание ответа, ошибка типа transcription
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
	// Synthesize озвучивание текста, возвращает ключ аудиофайла в хранилище
	Synthesize(ctx context.Context, text string) (audioKey string, err error)
}

var Instance Provider

func NewHandler() {
	client := speechclient.NewClient(speechclient.Config{
		BaseUrl:  config.Conf.Speech.BaseUrl,
		APIKey:   config.Conf.Speech.APIKey,
		SttModel: config.Conf.Speech.SttModel,
		TtsModel: config.Conf.Speech.TtsModel,
		TtsVoice: config.Conf.Speech.TtsVoice,
		Language: config.Conf.Speech.Language,
	})
	Instance = NewProvider(client, filestorage.Instance, time.Duration(config.Conf.Speech.TimeoutSec)*time.Second)
}

func NewProvider(client speechclient.Provider, storage filestorage.Provider, timeout time.Duration) Provider {
	return impl{
		client:  client,
		storage: storage,
		timeout: timeout,
	}
}

type impl struct {
	client  speechclient.Provider
	storage filestorage.Provider
	timeout time.Duration
}

func (i impl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if i.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, i.timeout)
}

func (i impl) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", apperr.Transcription(errors.New("пустой аудиофайл"), "аудиозапись ответа пуста")
	}
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()
	text, err := i.client.Transcribe(ctx, fileName, audio)
	if err != nil {
		log.WithField("file_name", fileName).WithError(err).Warn("ошибка распознавания речи")
		return "", apperr.Transcription(err, "не удалось распознать речь")
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.Transcription(errors.New("пустая расшифровка"), "речь в аудиозаписи не распознана")
	}
	return text, nil
}

func (i impl) Synthesize(ctx context.Context, text string) (string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()
	audio, err := i.client.Synthesize(ctx, text)
	if err != nil {
		log.WithError(err).Warn("ошибка синтеза речи")
		return "", apperr.Generation(err, "не удалось озвучить текст")
	}
	if i.storage == nil {
		return "", apperr.Generation(errors.New("хранилище не задано"), "не удалось сохранить аудио")
	}
	key, err := i.storage.UploadFile(ctx, filestorage.SpeechFolder, "speech.mp3", audio, "audio/mpeg")
	if err != nil {
		return "", apperr.Generation(err, "не удалось сохранить аудио")
	}
	return key, nil
}
