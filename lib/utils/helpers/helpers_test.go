package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpers(t *testing.T) {
	t.Run(`Clamp check`, func(t *testing.T) {
		require.Equal(t, 0.0, Clamp(-3, 0, 10))
		require.Equal(t, 10.0, Clamp(42, 0, 10))
		require.Equal(t, 7.5, Clamp(7.5, 0, 10))
		require.Equal(t, 0.0, Clamp(math.NaN(), 0, 10))
		require.Equal(t, 10.0, Clamp(math.Inf(1), 0, 10))
	})

	t.Run(`Round2 check`, func(t *testing.T) {
		require.Equal(t, 8.33, Round2(8.3333))
		require.Equal(t, 1.5, Round2(1.499999))
	})

	t.Run(`ExtractJSON check`, func(t *testing.T) {
		require.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
		require.Equal(t, `{"a":1}`, ExtractJSON("Вот ответ: {\"a\":1} спасибо"))
		require.Equal(t, `{"a":{"b":2}}`, ExtractJSON("```\n{\"a\":{\"b\":2}}\n```"))
		require.Equal(t, "no json", ExtractJSON("no json"))
		require.Equal(t, `[1,2]`, StripFence("```json\n[1,2]\n```"))
	})
}
