package dao

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cyrillicTranslit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "c",
	'ч': "ch", 'ш': "sh", 'щ': "sh", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

// Slugify переводит заголовок в нижний регистр, транслитерирует кириллицу, убирает диакритику
// и заменяет все остальные символы дефисами.
func Slugify(title string) string {
	// ё и й раскладываются NFD, поэтому транслитерация выполняется до удаления диакритики
	var tr strings.Builder
	for _, r := range strings.ToLower(title) {
		if s, ok := cyrillicTranslit[r]; ok {
			tr.WriteString(s)
			continue
		}
		tr.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, tr.String())
	if err != nil {
		plain = tr.String()
	}

	var b strings.Builder
	dash := false
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NewSlug возвращает уникальный slug поста: заголовок и время создания в миллисекундах.
func NewSlug(title string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if s := Slugify(title); s != "" {
		return s + "-" + ms
	}
	return "post-" + ms
}
