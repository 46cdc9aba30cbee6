package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "script removed",
			in:   `<p>a<script>alert(1)</script></p>`,
			want: `<p>a</p>`,
		},
		{
			name: "color style kept",
			in:   `<span style="color: #ff0000">x</span>`,
			want: `<span style="color: #ff0000">x</span>`,
		},
		{
			name: "youtube embed kept",
			in:   `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
			want: `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeDropsUnsafeValues(t *testing.T) {
	out := Sanitize(`<span style="color: expression(alert(1))">x</span><iframe src="https://evil.example/embed"></iframe>`)
	assert.NotContains(t, out, "expression")
	assert.NotContains(t, out, "evil.example")
	assert.Contains(t, out, "x")
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags(`<p>Hello <b>world</b></p>`))
}
