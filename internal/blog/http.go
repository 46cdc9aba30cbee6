// Пакет blog - HTTP сервис редактора блога: посты, отображение документов и импорт HTML.
//
// Основные возможности:
//   - CRUD постов пользователя и публичное чтение опубликованных постов по slug.
//   - Отображение документа в HTML, текст, Markdown, PDF и канонический JSON.
//   - Импорт HTML в документ редактора.
//   - Метрики Prometheus на отдельном порту и корректное завершение по сигналу.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/true1ck/blog-editor/internal/blog/config"
	"github.com/true1ck/blog-editor/internal/blog/dao"
	"github.com/true1ck/blog-editor/internal/blog/export"
)

type Services struct {
	cfg     *config.Config
	store   *dao.GormStore
	metrics *Metrics
	images  export.ImageLoader
	pdfFont *export.Font
	version string

	e       *echo.Echo
	metricE *echo.Echo
}

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "BlogEditor")
		return next(c)
	}
}

// NewServices собирает HTTP сервер и сервер метрик. Шрифт PDF читается из путей конфигурации,
// изображения для PDF загружаются относительно WEB_URL, если включен PDF_IMAGES.
func NewServices(db *gorm.DB, cfg *config.Config, version string) (*Services, error) {
	s := &Services{
		cfg:     cfg,
		store:   dao.NewGormStore(db),
		metrics: NewMetrics(),
		version: version,
	}

	font, err := loadFont(cfg)
	if err != nil {
		return nil, err
	}
	s.pdfFont = font
	if cfg.PDFImages {
		s.images = export.NewHTTPImageLoader(cfg.WebURL, time.Duration(cfg.ImageTimeoutSec)*time.Second)
	}

	s.e = s.newEcho()
	s.metricE = s.metrics.Echo()
	return s, nil
}

func loadFont(cfg *config.Config) (*export.Font, error) {
	if cfg.PDFFontPath == "" {
		return nil, nil
	}
	regular, err := os.ReadFile(cfg.PDFFontPath)
	if err != nil {
		return nil, err
	}
	font := &export.Font{Regular: regular}
	if cfg.PDFBoldFontPath != "" {
		if font.Bold, err = os.ReadFile(cfg.PDFBoldFontPath); err != nil {
			return nil, err
		}
	}
	return font, nil
}

func (s *Services) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		if code >= http.StatusInternalServerError {
			slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		}
		EErrorMsgStatus(c, err, code)
	}

	e.Use(ServerHeader)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     5,
		MinLength: 2048,
	}))
	e.Use(s.metrics.Middleware())
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")
	s.AddRenderServices(apiGroup)
	s.AddPostServices(apiGroup)

	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version":  s.version,
			"sanitize": s.cfg.SanitizeOutput,
			"minify":   s.cfg.MinifyOutput,
		})
	})

	apiGroup.GET("_health/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return e
}

// Run запускает API и сервер метрик и останавливает оба после отмены ctx.
func (s *Services) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Start API server", "addr", s.cfg.ListenAddr)
		if err := s.e.Start(s.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("Start metrics server", "addr", s.cfg.MetricsAddr)
		if err := s.metricE.Start(s.cfg.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(s.e.Shutdown(shutdownCtx), s.metricE.Shutdown(shutdownCtx))
	})

	return g.Wait()
}
