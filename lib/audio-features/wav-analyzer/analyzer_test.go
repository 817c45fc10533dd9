package wavanalyzer

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRate = 16000

func makeWav(t *testing.T, samples []float64) []byte {
	buf := new(bytes.Buffer)
	dataSize := uint32(len(samples) * 2)
	write := func(v interface{}) {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	}
	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(formatPCM))
	write(uint16(1))
	write(uint32(testRate))
	write(uint32(testRate * 2))
	write(uint16(2))
	write(uint16(16))
	buf.WriteString("data")
	write(dataSize)
	for _, s := range samples {
		write(int16(s * 32767))
	}
	return buf.Bytes()
}

func tone(seconds, freq, amp float64) []float64 {
	n := int(seconds * testRate)
	result := make([]float64, n)
	for k := range result {
		result[k] = amp * math.Sin(2*math.Pi*freq*float64(k)/testRate)
	}
	return result
}

func silence(seconds float64) []float64 {
	return make([]float64, int(seconds*testRate))
}

func concat(parts ...[]float64) []float64 {
	var result []float64
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}

func TestDecodeWav(t *testing.T) {
	t.Run(`16 bit mono`, func(t *testing.T) {
		data, err := decodeWav(makeWav(t, tone(0.5, 440, 0.5)))
		require.NoError(t, err)
		require.Equal(t, testRate, data.sampleRate)
		require.Equal(t, testRate/2, len(data.samples))
		require.InDelta(t, 0.5, data.duration(), 1e-9)
	})

	t.Run(`not a wav`, func(t *testing.T) {
		_, err := decodeWav([]byte("ID3 mp3 data here"))
		require.Error(t, err)
		_, err = decodeWav(nil)
		require.Error(t, err)
	})
}

func TestAnalyzer(t *testing.T) {
	analyzer := NewAnalyzer()
	ctx := context.TODO()

	t.Run(`speech surrounded by silence`, func(t *testing.T) {
		audio := makeWav(t, concat(silence(1), tone(2, 200, 0.5), silence(1)))
		intervals, total, err := analyzer.DetectSilence(ctx, audio)
		require.NoError(t, err)
		require.InDelta(t, 4.0, total, 1e-9)
		require.Len(t, intervals, 1)
		voiced := intervals[0].End - intervals[0].Start
		require.InDelta(t, 2.0, voiced, 0.6)
	})

	t.Run(`full silence has no speech`, func(t *testing.T) {
		intervals, total, err := analyzer.DetectSilence(ctx, makeWav(t, silence(2)))
		require.NoError(t, err)
		require.InDelta(t, 2.0, total, 1e-9)
		require.Empty(t, intervals)
	})

	t.Run(`pitch of pure tone`, func(t *testing.T) {
		_, pitch, err := analyzer.PitchAndTempo(ctx, makeWav(t, concat(silence(0.5), tone(1.5, 200, 0.5))))
		require.NoError(t, err)
		require.InDelta(t, 200, pitch, 5)
	})

	t.Run(`tempo of periodic clicks`, func(t *testing.T) {
		var samples []float64
		for beat := 0; beat < 8; beat++ {
			samples = append(samples, tone(0.05, 300, 0.8)...)
			samples = append(samples, silence(0.45)...)
		}
		tempo, _, err := analyzer.PitchAndTempo(ctx, makeWav(t, samples))
		require.NoError(t, err)
		require.InDelta(t, 120, tempo, 5)
	})

	t.Run(`broken audio is an error`, func(t *testing.T) {
		_, _, err := analyzer.DetectSilence(ctx, []byte("garbage"))
		require.Error(t, err)
		_, _, err = analyzer.PitchAndTempo(ctx, []byte("garbage"))
		require.Error(t, err)
	})
}
