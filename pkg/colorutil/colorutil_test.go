package colorutil

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ color.Color = Color{}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000000", Black},
		{"#FFFFFF", White},
		{"#ff0000", Red},
		{"#F00", Red},
		{"#F008", Color{R: 255, A: 0x88}},
		{"#00000033", Color{A: 0x33}},
		{"#12345678", Color{R: 0x12, G: 0x34, B: 0x56, A: 0x78}},
		{"transparent", Transparent},
		{"Transparent", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexRejects(t *testing.T) {
	for _, s := range []string{"", "#", "000000", "#12", "#12345", "#1234567", "#GG0000", "#123456789", "red"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseHex(s)
			assert.Error(t, err)
		})
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "#FF0000", Red.String())
	assert.Equal(t, "#00000033", Color{A: 0x33}.String())
	assert.Equal(t, "transparent", Transparent.String())
	assert.Equal(t, "#FFFFFF00", Color{R: 255, G: 255, B: 255}.String())
}

func TestColorStringRoundTrip(t *testing.T) {
	for _, c := range []Color{Black, White, RGB(1, 2, 3), {R: 9, G: 8, B: 7, A: 6}, Transparent} {
		got, err := ParseHex(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal([]Color{Red, Transparent})
	require.NoError(t, err)
	assert.JSONEq(t, `["#FF0000","transparent"]`, string(data))

	var got []Color
	require.NoError(t, json.Unmarshal([]byte(`["#0f0","#0000FF80"]`), &got))
	assert.Equal(t, []Color{Green, {B: 255, A: 0x80}}, got)

	assert.Error(t, json.Unmarshal([]byte(`["nope"]`), &got))
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, RGB(10, 20, 30), FromColor(color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	assert.Equal(t, Transparent, FromColor(color.RGBA{}))
	assert.Equal(t, Red, FromColor(Red.NRGBA()))
}

func TestParseNamed(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#0f0", Green},
		{" Red ", Red},
		{"CornflowerBlue", RGB(0x64, 0x95, 0xED)},
		{"transparent", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("not-a-colour")
	assert.Error(t, err)
}
