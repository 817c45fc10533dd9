package audiofeatures

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	intervals  []Interval
	total      float64
	silenceErr error
	tempo      float64
	pitch      float64
	pitchErr   error
	panicOn    string
}

func (f fakeAnalyzer) DetectSilence(ctx context.Context, audio []byte) ([]Interval, float64, error) {
	if f.panicOn == "silence" {
		panic("silence analyzer crashed")
	}
	return f.intervals, f.total, f.silenceErr
}

func (f fakeAnalyzer) PitchAndTempo(ctx context.Context, audio []byte) (float64, float64, error) {
	if f.panicOn == "pitch" {
		panic("pitch analyzer crashed")
	}
	return f.tempo, f.pitch, f.pitchErr
}

func TestCountFillers(t *testing.T) {
	t.Run(`single words and phrases`, func(t *testing.T) {
		require.Equal(t, 0, CountFillers(""))
		require.Equal(t, 2, CountFillers("Um, I think, uh... it works"))
		require.Equal(t, 1, CountFillers("you know it was fine"))
		require.Equal(t, 3, CountFillers("So, like, you know, I did it"))
		require.Equal(t, 0, CountFillers("younger knowledge solution"))
	})

	t.Run(`case and punctuation`, func(t *testing.T) {
		require.Equal(t, 2, CountFillers("HMM! Ah."))
		require.Equal(t, 1, CountFillers("You Know?"))
	})
}

func TestConfidenceScore(t *testing.T) {
	require.Equal(t, 10.0, ConfidenceScore(0, 0))
	require.Equal(t, 6.6, ConfidenceScore(2, 0.2))
	require.Equal(t, 0.0, ConfidenceScore(20, 0.5))
	require.Equal(t, 7.67, ConfidenceScore(1, 0.163))
}

func TestExtract(t *testing.T) {
	ctx := context.TODO()

	t.Run(`all features computed`, func(t *testing.T) {
		extractor := NewExtractor(fakeAnalyzer{
			intervals: []Interval{{Start: 0, End: 4}, {Start: 5, End: 9}},
			total:     10,
			tempo:     120,
			pitch:     180.5,
		})
		features := extractor.Extract(ctx, []byte("wav"), "um I led the team")
		require.Equal(t, 1, features.FillerCount)
		require.InDelta(t, 0.2, features.SilenceRatio, 1e-9)
		require.Equal(t, 120.0, features.Tempo)
		require.Equal(t, 180.5, features.AvgPitch)
		require.Equal(t, 7.3, features.ConfidenceScore)
	})

	t.Run(`silence failure falls back, others survive`, func(t *testing.T) {
		extractor := NewExtractor(fakeAnalyzer{
			silenceErr: errors.New("decode error"),
			tempo:      95,
			pitch:      140,
		})
		features := extractor.Extract(ctx, nil, "so")
		require.Equal(t, DefaultSilenceRatio, features.SilenceRatio)
		require.Equal(t, 95.0, features.Tempo)
		require.Equal(t, 1, features.FillerCount)
		require.Equal(t, 7.3, features.ConfidenceScore)
	})

	t.Run(`zero duration uses default silence ratio`, func(t *testing.T) {
		extractor := NewExtractor(fakeAnalyzer{total: 0})
		features := extractor.Extract(ctx, nil, "")
		require.Equal(t, DefaultSilenceRatio, features.SilenceRatio)
		require.Equal(t, 8.0, features.ConfidenceScore)
	})

	t.Run(`pitch failure gives zeros`, func(t *testing.T) {
		extractor := NewExtractor(fakeAnalyzer{
			intervals: []Interval{{Start: 0, End: 10}},
			total:     10,
			pitchErr:  errors.New("no frames"),
		})
		features := extractor.Extract(ctx, nil, "")
		require.Equal(t, 0.0, features.Tempo)
		require.Equal(t, 0.0, features.AvgPitch)
		require.Equal(t, 0.0, features.SilenceRatio)
		require.Equal(t, 10.0, features.ConfidenceScore)
	})

	t.Run(`panics are recovered`, func(t *testing.T) {
		features := NewExtractor(fakeAnalyzer{panicOn: "silence", tempo: 100}).Extract(ctx, nil, "uh um")
		require.Equal(t, DefaultSilenceRatio, features.SilenceRatio)
		require.Equal(t, 100.0, features.Tempo)
		require.Equal(t, 2, features.FillerCount)

		features = NewExtractor(fakeAnalyzer{panicOn: "pitch", total: 2, intervals: []Interval{{Start: 0, End: 1}}}).Extract(ctx, nil, "")
		require.InDelta(t, 0.5, features.SilenceRatio, 1e-9)
		require.Equal(t, 0.0, features.AvgPitch)
	})

	t.Run(`nil analyzer gives all fallbacks`, func(t *testing.T) {
		features := NewExtractor(nil).Extract(ctx, nil, "")
		require.Equal(t, DefaultSilenceRatio, features.SilenceRatio)
		require.Equal(t, 0.0, features.Tempo)
		require.Equal(t, 8.0, features.ConfidenceScore)
	})
}
