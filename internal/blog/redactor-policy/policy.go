// Определяет политики безопасности для HTML, который выдает рендерер документов и который
// принимается при импорте. Политики ограничивают элементы, атрибуты и стили, чтобы
// предотвратить XSS при встраивании контента рядом с недоверенной разметкой.
//
// Основные возможности:
//   - Разрешение классов оформления, цвета и размера шрифта из таблицы отображения.
//   - Разрешение встраивания YouTube только с адреса youtube.com/embed.
//   - StripTagsPolicy для получения чистого текста.
package policy

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var UgcPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

var (
	colorRegexp      = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgba?\((\d+),\s*(\d+),\s*(\d+)(,\s*[\d.]+)?\)|inherit)$`)
	sizeRegexp       = regexp.MustCompile(`^(\d+(px|em|rem|pt|%)?|auto|inherit)$`)
	fontRegexp       = regexp.MustCompile(`^[A-Za-z0-9 ,\-"']+$`)
	classRegexp      = regexp.MustCompile(`^[A-Za-z0-9 :_\-/.\[\]#%]+$`)
	targetRegexp     = regexp.MustCompile(`^(_blank|_self|_parent|_top)$`)
	videoIDRegexp    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	youtubeSrcRegexp = regexp.MustCompile(`^https://www\.youtube(-nocookie)?\.com/embed/[A-Za-z0-9_-]{11}$`)
	alignRegexp      = regexp.MustCompile(`^(left|center|right)$`)
)

func init() {
	UgcPolicy.AllowAttrs("class").Matching(classRegexp).Globally()

	UgcPolicy.AllowStyles("color").Matching(colorRegexp).OnElements("span")
	UgcPolicy.AllowStyles("font-size").Matching(sizeRegexp).OnElements("span")
	UgcPolicy.AllowStyles("text-align").Matching(bluemonday.CellAlign).OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6")
	UgcPolicy.AllowStyles("font-family").Matching(fontRegexp).OnElements("code", "pre")
	UgcPolicy.AllowStyles("width", "height").Matching(sizeRegexp).OnElements("img")

	UgcPolicy.AllowAttrs("target").Matching(targetRegexp).OnElements("a")
	UgcPolicy.AllowAttrs("rel", "title").OnElements("a")
	UgcPolicy.AllowAttrs("start").Matching(regexp.MustCompile(`^\d+$`)).OnElements("ol")
	UgcPolicy.AllowAttrs("data-align").Matching(alignRegexp).OnElements("img", "div")
	UgcPolicy.AllowAttrs("title").OnElements("img")

	UgcPolicy.AllowAttrs("data-youtube-video-id").Matching(videoIDRegexp).OnElements("div")
	UgcPolicy.AllowElements("iframe")
	UgcPolicy.AllowAttrs("src").Matching(youtubeSrcRegexp).OnElements("iframe")
	UgcPolicy.AllowAttrs("width", "height").Matching(sizeRegexp).OnElements("iframe")
	UgcPolicy.AllowAttrs("frameborder").Matching(regexp.MustCompile(`^\d$`)).OnElements("iframe")
	UgcPolicy.AllowAttrs("allowfullscreen").Matching(regexp.MustCompile(`^(true|allowfullscreen|)$`)).OnElements("iframe")
	UgcPolicy.AllowAttrs("allow").Matching(regexp.MustCompile(`^[a-z\-; ]+$`)).OnElements("iframe")
}

// Sanitize пропускает HTML через UgcPolicy.
func Sanitize(s string) string {
	return UgcPolicy.Sanitize(s)
}

// StripTags удаляет всю разметку, оставляя текст.
func StripTags(s string) string {
	return StripTagsPolicy.Sanitize(s)
}
