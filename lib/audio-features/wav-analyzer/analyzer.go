package wavanalyzer

import (
	"context"
	"math"
	"sort"

	audiofeatures "interview-platform-backend/lib/audio-features"

	"github.com/pkg/errors"
)

const (
	shortTermWindow = 0.05 // сек
	smoothWindow    = 1.0  // сек
	thresholdWeight = 0.3
	minSegment      = 0.2 // сек, более короткие отрезки речи отбрасываются

	pitchWindow   = 0.04 // сек
	minPitchHz    = 50.0
	maxPitchHz    = 500.0
	voicedCorr    = 0.3
	maxPitchFrame = 400

	onsetHop = 0.01 // сек
	minBPM   = 60.0
	maxBPM   = 200.0
)

// NewAnalyzer анализатор несжатых wav записей
func NewAnalyzer() audiofeatures.Analyzer {
	return impl{}
}

type impl struct{}

func (i impl) DetectSilence(ctx context.Context, audio []byte) ([]audiofeatures.Interval, float64, error) {
	data, err := decodeWav(audio)
	if err != nil {
		return nil, 0, err
	}
	total := data.duration()
	if total == 0 {
		return nil, 0, errors.New("пустая аудиозапись")
	}
	frameLen := int(shortTermWindow * float64(data.sampleRate))
	if frameLen == 0 {
		return nil, 0, errors.New("слишком низкая частота дискретизации")
	}
	energy := frameEnergy(data.samples, frameLen, frameLen)
	if len(energy) == 0 {
		return nil, total, nil
	}
	if err = ctx.Err(); err != nil {
		return nil, 0, err
	}
	smoothed := movingAverage(energy, int(math.Round(smoothWindow/shortTermWindow)))
	threshold, ok := weightedThreshold(smoothed, thresholdWeight)
	if !ok {
		// равномерный сигнал: либо тишина, либо сплошная речь
		if smoothed[0] <= 0 {
			return nil, total, nil
		}
		return []audiofeatures.Interval{{Start: 0, End: total}}, total, nil
	}

	var result []audiofeatures.Interval
	start := -1
	for idx, value := range smoothed {
		active := value > threshold
		switch {
		case active && start < 0:
			start = idx
		case !active && start >= 0:
			result = appendSegment(result, start, idx, total)
			start = -1
		}
	}
	if start >= 0 {
		result = appendSegment(result, start, len(smoothed), total)
	}
	return result, total, nil
}

func (i impl) PitchAndTempo(ctx context.Context, audio []byte) (tempo, avgPitch float64, err error) {
	data, err := decodeWav(audio)
	if err != nil {
		return 0, 0, err
	}
	if data.duration() == 0 {
		return 0, 0, errors.New("пустая аудиозапись")
	}
	avgPitch, err = estimatePitch(ctx, data)
	if err != nil {
		return 0, 0, err
	}
	tempo, err = estimateTempo(ctx, data)
	if err != nil {
		return 0, 0, err
	}
	return tempo, avgPitch, nil
}

func appendSegment(list []audiofeatures.Interval, fromFrame, toFrame int, total float64) []audiofeatures.Interval {
	start := float64(fromFrame) * shortTermWindow
	end := math.Min(float64(toFrame)*shortTermWindow, total)
	if end-start < minSegment {
		return list
	}
	return append(list, audiofeatures.Interval{Start: start, End: end})
}

// estimatePitch средняя частота основного тона по кадрам, энергия которых выше порога
func estimatePitch(ctx context.Context, data pcm) (float64, error) {
	frameLen := int(pitchWindow * float64(data.sampleRate))
	minLag := int(float64(data.sampleRate) / maxPitchHz)
	maxLag := int(float64(data.sampleRate) / minPitchHz)
	if minLag < 1 || maxLag >= frameLen {
		frameLen = maxLag + 1
	}
	if len(data.samples) < frameLen {
		return 0, nil
	}
	energy := frameEnergy(data.samples, frameLen, frameLen)
	threshold, ok := weightedThreshold(energy, thresholdWeight)
	if !ok {
		threshold = 0
	}
	var candidates []int
	for idx, value := range energy {
		if value > threshold && value > 0 {
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) > maxPitchFrame {
		step := float64(len(candidates)) / maxPitchFrame
		reduced := make([]int, 0, maxPitchFrame)
		for n := 0; n < maxPitchFrame; n++ {
			reduced = append(reduced, candidates[int(float64(n)*step)])
		}
		candidates = reduced
	}

	sum, count := 0.0, 0
	for _, idx := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		frame := data.samples[idx*frameLen : idx*frameLen+frameLen]
		if lag := bestLag(frame, minLag, maxLag); lag > 0 {
			sum += float64(data.sampleRate) / float64(lag)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func bestLag(frame []float64, minLag, maxLag int) int {
	if minLag < 1 {
		minLag = 1
	}
	zero := 0.0
	for _, v := range frame {
		zero += v * v
	}
	if zero == 0 {
		return 0
	}
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	corrs := make([]float64, 0, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for n := 0; n+lag < len(frame); n++ {
			corr += frame[n] * frame[n+lag]
		}
		// нормировка на перекрытие окна
		corrs = append(corrs, corr/zero*float64(len(frame))/float64(len(frame)-lag))
	}
	lag := pickPeak(corrs, voicedCorr)
	if lag < 0 {
		return 0
	}
	return minLag + lag
}

// pickPeak индекс первого локального максимума, близкого к глобальному (защита от выбора кратного периода). -1 если максимум не выше floor
func pickPeak(values []float64, floor float64) int {
	maxValue := floor
	found := false
	for _, v := range values {
		if v > maxValue {
			maxValue = v
			found = true
		}
	}
	if !found {
		return -1
	}
	for idx, v := range values {
		if v < 0.9*maxValue || v <= floor {
			continue
		}
		if idx+1 < len(values) && values[idx+1] > v {
			continue
		}
		return idx
	}
	return -1
}

// estimateTempo темп по автокорреляции огибающей атак в диапазоне 60-200 BPM
func estimateTempo(ctx context.Context, data pcm) (float64, error) {
	hop := int(onsetHop * float64(data.sampleRate))
	if hop == 0 {
		return 0, nil
	}
	energy := frameEnergy(data.samples, hop*2, hop)
	if len(energy) < 3 {
		return 0, nil
	}
	onset := make([]float64, len(energy))
	for n := 1; n < len(energy); n++ {
		if diff := energy[n] - energy[n-1]; diff > 0 {
			onset[n] = diff
		}
	}
	mean := 0.0
	for _, v := range onset {
		mean += v
	}
	mean /= float64(len(onset))
	for n := range onset {
		onset[n] -= mean
	}

	minLag := int(math.Floor(60 / (maxBPM * onsetHop)))
	maxLag := int(math.Ceil(60 / (minBPM * onsetHop)))
	if maxLag >= len(onset) {
		maxLag = len(onset) - 1
	}
	if maxLag < minLag {
		return 0, nil
	}
	corrs := make([]float64, 0, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		corr := 0.0
		for n := 0; n+lag < len(onset); n++ {
			corr += onset[n] * onset[n+lag]
		}
		corrs = append(corrs, corr/float64(len(onset)-lag))
	}
	best := pickPeak(corrs, 0)
	if best < 0 {
		return 0, nil
	}
	lag := float64(minLag + best)
	return math.Round(60/(lag*onsetHop)*100) / 100, nil
}

func frameEnergy(samples []float64, frameLen, hop int) []float64 {
	if frameLen <= 0 || hop <= 0 || len(samples) < frameLen {
		if len(samples) == 0 || frameLen <= 0 {
			return nil
		}
		frameLen = len(samples)
	}
	var result []float64
	for start := 0; start+frameLen <= len(samples); start += hop {
		sum := 0.0
		for _, v := range samples[start : start+frameLen] {
			sum += v * v
		}
		result = append(result, sum/float64(frameLen))
	}
	return result
}

func movingAverage(values []float64, window int) []float64 {
	if window <= 1 {
		return values
	}
	result := make([]float64, len(values))
	half := window / 2
	for idx := range values {
		from := idx - half
		if from < 0 {
			from = 0
		}
		to := idx + half + 1
		if to > len(values) {
			to = len(values)
		}
		sum := 0.0
		for _, v := range values[from:to] {
			sum += v
		}
		result[idx] = sum / float64(to-from)
	}
	return result
}

// weightedThreshold порог между средним нижних и верхних 10% значений. ok = false для равномерного сигнала
func weightedThreshold(values []float64, weight float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	part := len(sorted) / 10
	if part == 0 {
		part = 1
	}
	low, high := 0.0, 0.0
	for n := 0; n < part; n++ {
		low += sorted[n]
		high += sorted[len(sorted)-1-n]
	}
	low /= float64(part)
	high /= float64(part)
	if high-low <= 1e-12 {
		return 0, false
	}
	return (1-weight)*low + weight*high, true
}
