package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Config - таблица соответствия узлов документа и оформления.
// Значения по умолчанию совпадают с веб-версией и мобильным приложением,
// поэтому изменения таблицы должны выполняться на всех поверхностях одновременно.
type Config struct {
	ParagraphClass string            `json:"paragraphClass"`
	AlignClasses   map[string]string `json:"alignClasses"`

	HeadingClasses [6]string `json:"headingClasses"`
	HeadingClass   string    `json:"headingClass"`

	BulletListClass  string `json:"bulletListClass"`
	OrderedListClass string `json:"orderedListClass"`
	ListItemClass    string `json:"listItemClass"`

	ImageWrapperClass string            `json:"imageWrapperClass"`
	ImageClass        string            `json:"imageClass"`
	ImageAlignClasses map[string]string `json:"imageAlignClasses"`
	ImageCaptionClass string            `json:"imageCaptionClass"`

	BlockquoteClass     string `json:"blockquoteClass"`
	CodeBlockClass      string `json:"codeBlockClass"`
	CodeClass           string `json:"codeClass"`
	CodeFont            string `json:"codeFont"`
	InlineCodeClass     string `json:"inlineCodeClass"`
	HorizontalRuleClass string `json:"horizontalRuleClass"`

	LinkTarget string `json:"linkTarget"`
	LinkRel    string `json:"linkRel"`

	YouTubeWrapperClass     string `json:"youtubeWrapperClass"`
	YouTubeFrameClass       string `json:"youtubeFrameClass"`
	YouTubeFrameHeight      int    `json:"youtubeFrameHeight"`
	YouTubeFrameAllow       string `json:"youtubeFrameAllow"`
	YouTubePlaceholderClass string `json:"youtubePlaceholderClass"`
	YouTubePlaceholderText  string `json:"youtubePlaceholderText"`

	// Пустое значение означает, что неизвестные узлы не оборачиваются.
	UnknownWrapperClass string `json:"unknownWrapperClass"`
}

// DefaultConfig возвращает таблицу оформления по умолчанию (классы Tailwind).
func DefaultConfig() Config {
	return Config{
		ParagraphClass: "mb-3 text-base leading-relaxed text-gray-900",
		AlignClasses: map[string]string{
			"left":    "text-left",
			"center":  "text-center",
			"right":   "text-right",
			"justify": "text-justify",
		},
		HeadingClasses: [6]string{
			"text-3xl font-bold mb-4 mt-6",
			"text-2xl font-bold mb-4 mt-6",
			"text-xl font-bold mb-3 mt-5",
			"text-lg font-bold mb-3 mt-4",
			"text-base font-bold mb-2 mt-3",
			"text-sm font-bold mb-2 mt-3",
		},
		HeadingClass:      "text-gray-900",
		BulletListClass:   "list-disc list-inside mb-3 space-y-1 ml-4",
		OrderedListClass:  "list-decimal list-inside mb-3 space-y-1 ml-4",
		ListItemClass:     "text-base text-gray-900",
		ImageWrapperClass: "mb-4",
		ImageClass:        "w-full rounded-lg",
		ImageAlignClasses: map[string]string{
			"left":   "mr-auto",
			"center": "mx-auto",
			"right":  "ml-auto",
		},
		ImageCaptionClass:       "text-sm text-gray-500 text-center mt-2",
		BlockquoteClass:         "border-l-4 border-indigo-500 pl-4 py-2 my-3 italic text-gray-700 bg-gray-50 rounded-r",
		CodeBlockClass:          "bg-gray-100 p-4 rounded-lg overflow-x-auto mb-3",
		CodeClass:               "text-sm font-mono text-gray-800",
		CodeFont:                "monospace",
		InlineCodeClass:         "bg-gray-100 px-1 rounded text-sm font-mono",
		HorizontalRuleClass:     "my-4 border-gray-200 opacity-30",
		LinkTarget:              "_blank",
		LinkRel:                 "noopener noreferrer nofollow",
		YouTubeWrapperClass:     "youtube-embed-wrapper",
		YouTubeFrameClass:       "youtube-embed",
		YouTubeFrameHeight:      315,
		YouTubeFrameAllow:       "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture",
		YouTubePlaceholderClass: "youtube-placeholder",
		YouTubePlaceholderText:  "YouTube video",
	}
}

// LoadConfig читает JSON поверх таблицы по умолчанию.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode render config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate заполняет пустые поля значениями по умолчанию и проверяет, что
// значения можно безопасно поместить в атрибуты.
func (c *Config) Validate() error {
	*c = c.withDefaults()

	if c.YouTubeFrameHeight <= 0 {
		return fmt.Errorf("render config: youtubeFrameHeight must be positive, got %d", c.YouTubeFrameHeight)
	}

	values := []string{
		c.ParagraphClass, c.HeadingClass, c.BulletListClass, c.OrderedListClass, c.ListItemClass,
		c.ImageWrapperClass, c.ImageClass, c.ImageCaptionClass, c.BlockquoteClass, c.CodeBlockClass,
		c.CodeClass, c.CodeFont, c.InlineCodeClass, c.HorizontalRuleClass, c.LinkTarget, c.LinkRel,
		c.YouTubeWrapperClass, c.YouTubeFrameClass, c.YouTubeFrameAllow, c.YouTubePlaceholderClass,
		c.UnknownWrapperClass,
	}
	values = append(values, c.HeadingClasses[:]...)
	for _, v := range c.AlignClasses {
		values = append(values, v)
	}
	for _, v := range c.ImageAlignClasses {
		values = append(values, v)
	}
	for _, v := range values {
		if strings.ContainsAny(v, `<>"`) {
			return fmt.Errorf("render config: forbidden characters in %q", v)
		}
	}
	return nil
}

// withDefaults возвращает копию, в которой пустые поля заполнены значениями по умолчанию.
// UnknownWrapperClass не заполняется: пустое значение допустимо.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}

	fill(&c.ParagraphClass, def.ParagraphClass)
	fill(&c.HeadingClass, def.HeadingClass)
	for i := range c.HeadingClasses {
		fill(&c.HeadingClasses[i], def.HeadingClasses[i])
	}
	fill(&c.BulletListClass, def.BulletListClass)
	fill(&c.OrderedListClass, def.OrderedListClass)
	fill(&c.ListItemClass, def.ListItemClass)
	fill(&c.ImageWrapperClass, def.ImageWrapperClass)
	fill(&c.ImageClass, def.ImageClass)
	fill(&c.ImageCaptionClass, def.ImageCaptionClass)
	fill(&c.BlockquoteClass, def.BlockquoteClass)
	fill(&c.CodeBlockClass, def.CodeBlockClass)
	fill(&c.CodeClass, def.CodeClass)
	fill(&c.CodeFont, def.CodeFont)
	fill(&c.InlineCodeClass, def.InlineCodeClass)
	fill(&c.HorizontalRuleClass, def.HorizontalRuleClass)
	fill(&c.LinkTarget, def.LinkTarget)
	fill(&c.LinkRel, def.LinkRel)
	fill(&c.YouTubeWrapperClass, def.YouTubeWrapperClass)
	fill(&c.YouTubeFrameClass, def.YouTubeFrameClass)
	fill(&c.YouTubeFrameAllow, def.YouTubeFrameAllow)
	fill(&c.YouTubePlaceholderClass, def.YouTubePlaceholderClass)
	fill(&c.YouTubePlaceholderText, def.YouTubePlaceholderText)
	if c.YouTubeFrameHeight == 0 {
		c.YouTubeFrameHeight = def.YouTubeFrameHeight
	}

	c.AlignClasses = mergeClasses(c.AlignClasses, def.AlignClasses)
	c.ImageAlignClasses = mergeClasses(c.ImageAlignClasses, def.ImageAlignClasses)
	return c
}

func mergeClasses(m, def map[string]string) map[string]string {
	out := make(map[string]string, len(def))
	for k, v := range def {
		out[k] = v
	}
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
