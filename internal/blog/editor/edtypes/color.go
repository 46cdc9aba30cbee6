package edtypes

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var ErrUnsupportedColor = errors.New("unsupported color format")

type Color color.RGBA

// ParseColor разбирает цвет в форматах #RGB, #RRGGBB, #RRGGBBAA, rgb(r, g, b) и rgba(r, g, b, a).
// Если альфа-канал не указан, цвет считается непрозрачным.
func ParseColor(raw string) (Color, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return Color{}, ErrUnsupportedColor
	}
	switch {
	case strings.HasPrefix(raw, "rgb"):
		body, ok := strings.CutSuffix(raw, ")")
		if !ok {
			return Color{}, ErrUnsupportedColor
		}
		if i := strings.IndexByte(body, '('); i >= 0 {
			body = body[i+1:]
		} else {
			return Color{}, ErrUnsupportedColor
		}
		c := Color{A: 255}
		parts := strings.Split(strings.ReplaceAll(body, " ", ""), ",")
		if len(parts) < 3 || len(parts) > 4 {
			return Color{}, ErrUnsupportedColor
		}
		for i, n := range parts {
			if i == 3 {
				f, err := strconv.ParseFloat(n, 64)
				if err != nil || f < 0 || f > 1 {
					return Color{}, ErrUnsupportedColor
				}
				c.A = uint8(f*255 + 0.5)
				continue
			}
			nn, err := strconv.ParseUint(n, 10, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %v", ErrUnsupportedColor, err)
			}
			switch i {
			case 0:
				c.R = uint8(nn)
			case 1:
				c.G = uint8(nn)
			case 2:
				c.B = uint8(nn)
			}
		}
		return c, nil
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
		if len(raw) == 3 {
			raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
		}
		if len(raw) != 6 && len(raw) != 8 {
			return Color{}, ErrUnsupportedColor
		}
		b, err := hex.DecodeString(raw)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %v", ErrUnsupportedColor, err)
		}
		c := Color{R: b[0], G: b[1], B: b[2], A: 255}
		if len(b) == 4 {
			c.A = b[3]
		}
		return c, nil
	}
	return Color{}, ErrUnsupportedColor
}

// Hex возвращает цвет в виде #rrggbb, альфа-канал добавляется только для полупрозрачных цветов.
func (c Color) Hex() string {
	if c.A == 255 {
		return "#" + hex.EncodeToString([]byte{c.R, c.G, c.B})
	}
	return "#" + hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})
}

func (c Color) String() string {
	return c.Hex()
}
