package helpers

import (
	"context"
	"math"
	"regexp"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// Clamp ограничивает значение отрезком [min, max], NaN превращается в min
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

var jsonFence = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// StripFence снимает markdown-обертку ```json ... ```
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := jsonFence.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return text
}

// ExtractJSON вырезает json объект из ответа ИИ: снимает markdown-обертку и обрезает текст до первой { и после последней }
func ExtractJSON(text string) string {
	text = StripFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
