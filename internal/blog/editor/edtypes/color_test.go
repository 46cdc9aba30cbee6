package edtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		raw     string
		want    Color
		wantHex string
		wantErr bool
	}{
		{raw: "#ff0000", want: Color{R: 255, A: 255}, wantHex: "#ff0000"},
		{raw: "#FFAABB", want: Color{R: 255, G: 170, B: 187, A: 255}, wantHex: "#ffaabb"},
		{raw: "#abc", want: Color{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}, wantHex: "#aabbcc"},
		{raw: "#11223380", want: Color{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, wantHex: "#11223380"},
		{raw: "rgb(10, 20, 30)", want: Color{R: 10, G: 20, B: 30, A: 255}, wantHex: "#0a141e"},
		{raw: "rgba(10,20,30,0)", want: Color{R: 10, G: 20, B: 30}, wantHex: "#0a141e00"},
		{raw: " #000 ", want: Color{A: 255}, wantHex: "#000000"},
		{raw: "", wantErr: true},
		{raw: "red", wantErr: true},
		{raw: "#12", wantErr: true},
		{raw: "#gggggg", wantErr: true},
		{raw: "rgb(300,0,0)", wantErr: true},
		{raw: "rgb(1,2)", wantErr: true},
		{raw: "rgb(1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := ParseColor(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.wantHex, c.Hex())

			again, err := ParseColor(c.Hex())
			require.NoError(t, err)
			assert.Equal(t, c, again)
		})
	}
}

func TestTextStyleMerge(t *testing.T) {
	red := Color{R: 255, A: 255}
	blue := Color{B: 255, A: 255}
	s12, s20 := 12, 20

	merged := TextStyle{Color: &red}.Merge(TextStyle{Color: &blue, FontSize: &s12})
	assert.Equal(t, red, *merged.Color)
	assert.Equal(t, 12, *merged.FontSize)

	merged = TextStyle{FontSize: &s20}.Merge(TextStyle{FontSize: &s12})
	assert.Nil(t, merged.Color)
	assert.Equal(t, 20, *merged.FontSize)

	assert.True(t, TextStyle{}.IsEmpty())
	assert.False(t, merged.IsEmpty())
}
