// Конфигурация сервиса блога из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения по тегам env.
//   - Маскировка секретных значений в логах.
//   - Значения по умолчанию для адресов, лимитов и таблицы отображения.
//   - Загрузка таблицы отображения документов из JSON файла.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/true1ck/blog-editor/internal/blog/editor/render"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`

	ListenAddr  string `env:"LISTEN_ADDR"`
	MetricsAddr string `env:"METRICS_ADDR"`

	WebURLRaw string `env:"WEB_URL"`
	WebURL    *url.URL

	RenderConfigPath string `env:"RENDER_CONFIG"`
	Render           render.Config

	SanitizeOutput bool `env:"SANITIZE_OUTPUT"`
	MinifyOutput   bool `env:"MINIFY_OUTPUT"`

	// BodyLimit в формате echo middleware.BodyLimit, например 2M.
	BodyLimit string `env:"BODY_LIMIT"`

	PDFFontPath     string `env:"PDF_FONT_PATH"`
	PDFBoldFontPath string `env:"PDF_BOLD_FONT_PATH"`

	// PDFImages включает загрузку изображений документа при экспорте в PDF.
	PDFImages       bool `env:"PDF_IMAGES"`
	ImageTimeoutSec int  `env:"IMAGE_TIMEOUT"`
	ShutdownTimeout time.Duration
}

// ReadConfig загружает конфигурацию из переменных окружения и подставляет значения по умолчанию.
// Ошибка возвращается, если WEB_URL не является URL или файл таблицы отображения не читается.
func ReadConfig() (*Config, error) {
	config := &Config{
		ListenAddr:      ":8080",
		MetricsAddr:     ":2112",
		BodyLimit:       "2M",
		ImageTimeoutSec: 10,
		ShutdownTimeout: 10 * time.Second,
	}

	envConfig("env", config)

	if config.WebURLRaw != "" {
		u, err := url.Parse(config.WebURLRaw)
		if err != nil {
			return nil, fmt.Errorf("WEB_URL incorrect: %w", err)
		}
		config.WebURL = u
	}

	if config.ImageTimeoutSec <= 0 {
		config.ImageTimeoutSec = 10
	}

	config.Render = render.DefaultConfig()
	if config.RenderConfigPath != "" {
		f, err := os.Open(config.RenderConfigPath)
		if err != nil {
			return nil, fmt.Errorf("open render config: %w", err)
		}
		defer f.Close()

		config.Render, err = render.LoadConfig(f)
		if err != nil {
			return nil, fmt.Errorf("load render config %s: %w", config.RenderConfigPath, err)
		}
	}

	return config, nil
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if fEnvTag == "" {
			continue
		}

		value, ok := os.LookupEnv(fEnvTag)
		if !ok || value == "" {
			continue
		}

		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", maskSecret(fName, value)),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(value)
		case int:
			// Неверное число дает 0
			n, _ := strconv.Atoi(value)
			v.Field(i).SetInt(int64(n))
		case bool:
			b, _ := strconv.ParseBool(value)
			v.Field(i).SetBool(b)
		}
	}
}

// maskSecret скрывает пароли в DSN и значения секретных полей, оставляя первый и последний символ.
func maskSecret(field, value string) string {
	name := strings.ToLower(field)
	if strings.Contains(name, "dsn") {
		if u, err := url.Parse(value); err == nil {
			return u.Redacted()
		}
		return value
	}
	if !strings.Contains(name, "pass") && !strings.Contains(name, "secret") && !strings.Contains(name, "token") {
		return value
	}

	runes := []rune(value)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
