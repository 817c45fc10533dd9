package wavanalyzer

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

type pcm struct {
	samples    []float64 // моно, нормировано в [-1,1]
	sampleRate int
}

func (p pcm) duration() float64 {
	if p.sampleRate == 0 {
		return 0
	}
	return float64(len(p.samples)) / float64(p.sampleRate)
}

// decodeWav разбирает RIFF/WAVE файл с PCM 8/16/24/32 бит или float32, каналы усредняются
func decodeWav(data []byte) (pcm, error) {
	r := bytes.NewReader(data)
	var header struct {
		Riff [4]byte
		Size uint32
		Wave [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return pcm{}, errors.Wrap(err, "не удалось прочитать заголовок wav")
	}
	if string(header.Riff[:]) != "RIFF" || string(header.Wave[:]) != "WAVE" {
		return pcm{}, errors.New("файл не является wav")
	}

	var (
		format        uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		fmtFound      bool
	)
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return pcm{}, errors.New("в wav не найден блок данных")
			}
			return pcm{}, errors.Wrap(err, "ошибка чтения блока wav")
		}
		size := int64(chunk.Size)
		switch string(chunk.ID[:]) {
		case "fmt ":
			var fmtChunk struct {
				Format        uint16
				Channels      uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &fmtChunk); err != nil {
				return pcm{}, errors.Wrap(err, "ошибка чтения формата wav")
			}
			format = fmtChunk.Format
			channels = fmtChunk.Channels
			sampleRate = fmtChunk.SampleRate
			bitsPerSample = fmtChunk.BitsPerSample
			fmtFound = true
			if _, err := r.Seek(size-16+size%2, io.SeekCurrent); err != nil {
				return pcm{}, errors.Wrap(err, "ошибка чтения формата wav")
			}
		case "data":
			if !fmtFound {
				return pcm{}, errors.New("блок данных wav до блока формата")
			}
			if channels == 0 || sampleRate == 0 {
				return pcm{}, errors.New("некорректный формат wav")
			}
			if format == formatExtensible {
				if bitsPerSample == 32 {
					format = formatFloat
				} else {
					format = formatPCM
				}
			}
			remaining := int64(r.Len())
			if size > remaining || size == 0 {
				// поток мог быть записан без итогового размера
				size = remaining
			}
			raw := make([]byte, size)
			if _, err := io.ReadFull(r, raw); err != nil {
				return pcm{}, errors.Wrap(err, "ошибка чтения данных wav")
			}
			samples, err := toMono(raw, format, int(channels), int(bitsPerSample))
			if err != nil {
				return pcm{}, err
			}
			return pcm{samples: samples, sampleRate: int(sampleRate)}, nil
		default:
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return pcm{}, errors.Wrap(err, "ошибка чтения блока wav")
			}
		}
	}
}

func toMono(raw []byte, format uint16, channels, bits int) ([]float64, error) {
	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		return nil, errors.Errorf("неподдерживаемая разрядность wav: %d", bits)
	}
	frameSize := bytesPerSample * channels
	frames := len(raw) / frameSize
	result := make([]float64, frames)
	for n := 0; n < frames; n++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			offset := n*frameSize + ch*bytesPerSample
			value, err := readSample(raw[offset:offset+bytesPerSample], format, bits)
			if err != nil {
				return nil, err
			}
			sum += value
		}
		result[n] = sum / float64(channels)
	}
	return result, nil
}

func readSample(b []byte, format uint16, bits int) (float64, error) {
	switch {
	case format == formatFloat && bits == 32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case format != formatPCM:
		return 0, errors.Errorf("неподдерживаемый формат wav: %d", format)
	case bits == 8:
		return (float64(b[0]) - 128) / 128, nil
	case bits == 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768, nil
	case bits == 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return float64(v) / 8388608, nil
	case bits == 32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648, nil
	}
	return 0, errors.Errorf("неподдерживаемая разрядность wav: %d", bits)
}
