package edtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYouTubeVideoID(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	tests := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{in: id, want: id, wantOk: true},
		{in: "https://www.youtube.com/watch?v=" + id, want: id, wantOk: true},
		{in: "https://youtube.com/watch?v=" + id + "&t=42s", want: id, wantOk: true},
		{in: "https://m.youtube.com/watch?v=" + id, want: id, wantOk: true},
		{in: "https://youtu.be/" + id, want: id, wantOk: true},
		{in: "youtu.be/" + id, want: id, wantOk: true},
		{in: "https://www.youtube.com/embed/" + id, want: id, wantOk: true},
		{in: "https://www.youtube-nocookie.com/embed/" + id, want: id, wantOk: true},
		{in: "https://www.youtube.com/shorts/" + id, want: id, wantOk: true},
		{in: "https://vimeo.com/12345", wantOk: false},
		{in: "https://www.youtube.com/watch?v=short", wantOk: false},
		{in: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := YouTubeVideoID(tt.in)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYouTubeURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", YouTubeEmbedURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTubeWatchURL("dQw4w9WgXcQ"))
	assert.Equal(t, "", YouTubeEmbedURL("bad"))
	assert.Equal(t, "", YouTubeWatchURL(""))
}
