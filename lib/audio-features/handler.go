package audiofeatures

import (
	"context"
	"math"
	"runtime/debug"
	"strings"
	"unicode"

	"interview-platform-backend/lib/utils/helpers"
	dbmodels "interview-platform-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSilenceRatio доля тишины, если анализ аудио не удался
	DefaultSilenceRatio = 0.2

	fillerWeight  = 0.7
	silenceWeight = 10.0
	maxConfidence = 10.0
)

// Fillers слова-паразиты. Фразы из нескольких слов считаются по совпадению последовательности токенов
var Fillers = []string{"uh", "um", "like", "you know", "hmm", "ah", "er", "so"}

// Interval отрезок аудио в секундах
type Interval struct {
	Start float64
	End   float64
}

// Analyzer примитивы анализа аудио
type Analyzer interface {
	// DetectSilence возвращает отрезки речи (не тишины) и общую длительность записи в секундах
	DetectSilence(ctx context.Context, audio []byte) (nonSilent []Interval, totalSec float64, err error)
	// PitchAndTempo возвращает темп (BPM) и среднюю высоту тона (Гц)
	PitchAndTempo(ctx context.Context, audio []byte) (tempo, avgPitch float64, err error)
}

type Provider interface {
	Extract(ctx context.Context, audio []byte, transcript string) dbmodels.AudioFeatures
}

var Instance Provider

func NewHandler(analyzer Analyzer) {
	Instance = NewExtractor(analyzer)
}

func NewExtractor(analyzer Analyzer) Provider {
	return impl{
		analyzer: analyzer,
	}
}

type impl struct {
	analyzer Analyzer
}

func (i impl) getLogger() *log.Entry {
	return log.WithField("component", "audio_features")
}

// Extract никогда не возвращает ошибку: каждый показатель считается отдельно и при сбое заменяется значением по умолчанию
func (i impl) Extract(ctx context.Context, audio []byte, transcript string) dbmodels.AudioFeatures {
	result := dbmodels.AudioFeatures{
		SilenceRatio: DefaultSilenceRatio,
	}

	i.guard("filler_count", func() error {
		result.FillerCount = CountFillers(transcript)
		return nil
	})

	i.guard("silence_ratio", func() error {
		ratio, err := i.silenceRatio(ctx, audio)
		if err != nil {
			return err
		}
		result.SilenceRatio = ratio
		return nil
	})

	i.guard("pitch_tempo", func() error {
		if i.analyzer == nil {
			return errors.New("анализатор аудио не задан")
		}
		tempo, pitch, err := i.analyzer.PitchAndTempo(ctx, audio)
		if err != nil {
			return err
		}
		result.Tempo = nonNegative(tempo)
		result.AvgPitch = nonNegative(pitch)
		return nil
	})

	result.ConfidenceScore = ConfidenceScore(result.FillerCount, result.SilenceRatio)
	return result
}

func (i impl) silenceRatio(ctx context.Context, audio []byte) (float64, error) {
	if i.analyzer == nil {
		return 0, errors.New("анализатор аудио не задан")
	}
	intervals, total, err := i.analyzer.DetectSilence(ctx, audio)
	if err != nil {
		return 0, err
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, errors.Errorf("некорректная длительность аудио: %v", total)
	}
	voiced := 0.0
	for _, interval := range intervals {
		if interval.End > interval.Start {
			voiced += interval.End - interval.Start
		}
	}
	return helpers.Clamp(1-voiced/total, 0, 1), nil
}

func (i impl) guard(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			i.getLogger().
				WithField("feature", name).
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	if err := fn(); err != nil {
		i.getLogger().
			WithField("feature", name).
			WithError(err).
			Warn("не удалось вычислить показатель аудио, используется значение по умолчанию")
	}
}

// CountFillers количество слов-паразитов в расшифровке
func CountFillers(transcript string) int {
	tokens := tokenize(transcript)
	if len(tokens) == 0 {
		return 0
	}
	count := 0
	for _, filler := range Fillers {
		phrase := strings.Fields(filler)
		if len(phrase) == 0 {
			continue
		}
		for pos := 0; pos+len(phrase) <= len(tokens); pos++ {
			if matchPhrase(tokens[pos:pos+len(phrase)], phrase) {
				count++
			}
		}
	}
	return count
}

// ConfidenceScore эвристика уверенности: 10 - (паразиты*0.7 + доля тишины*10), в пределах [0,10]
func ConfidenceScore(fillerCount int, silenceRatio float64) float64 {
	score := maxConfidence - (float64(fillerCount)*fillerWeight + silenceRatio*silenceWeight)
	return helpers.Round2(helpers.Clamp(score, 0, maxConfidence))
}

func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return -1
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return ' '
		}
		return unicode.ToLower(r)
	}, text)
	return strings.Fields(cleaned)
}

func matchPhrase(tokens, phrase []string) bool {
	for idx := range phrase {
		if tokens[idx] != phrase[idx] {
			return false
		}
	}
	return true
}

func nonNegative(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
