package geminiclient

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
}

type impl struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewClient(ctx context.Context, apiKey, model string, temperature float64) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания клиента Gemini")
	}
	return impl{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	temperature := i.temperature
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   4096,
		SystemInstruction: genai.NewContentFromText(promt, genai.RoleUser),
	}
	resp, err := i.client.Models.GenerateContent(ctx, i.model, genai.Text(text), config)
	if err != nil {
		return "", errors.Wrap(err, "Ошибка при отправке запроса на генерацию в API Gemini")
	}
	if resp == nil {
		return "", errors.New("API Gemini вернул пустой ответ")
	}
	result := resp.Text()
	if result == "" {
		return "", errors.New("в ответе API Gemini нет текста")
	}
	return result, nil
}
