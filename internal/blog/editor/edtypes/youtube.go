package edtypes

import (
	"net/url"
	"regexp"
	"strings"
)

const youtubeEmbedPrefix = "https://www.youtube.com/embed/"

var videoIDReg = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidVideoID проверяет идентификатор YouTube видео (11 символов из [A-Za-z0-9_-]).
func IsValidVideoID(id string) bool {
	return videoIDReg.MatchString(id)
}

// YouTubeEmbedURL возвращает адрес встраиваемого плеера. Для некорректного id возвращает пустую строку.
func YouTubeEmbedURL(id string) string {
	if !IsValidVideoID(id) {
		return ""
	}
	return youtubeEmbedPrefix + id
}

// YouTubeWatchURL возвращает адрес страницы просмотра видео.
func YouTubeWatchURL(id string) string {
	if !IsValidVideoID(id) {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}

// YouTubeVideoID извлекает идентификатор видео из ссылки или возвращает сам идентификатор.
// Поддерживаются youtube.com/watch?v=, youtu.be/, youtube.com/embed/ и youtube.com/shorts/.
func YouTubeVideoID(urlOrID string) (string, bool) {
	s := strings.TrimSpace(urlOrID)
	if IsValidVideoID(s) {
		return s, true
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}
	id = strings.TrimSuffix(id, "/")
	if !IsValidVideoID(id) {
		return "", false
	}
	return id, true
}
