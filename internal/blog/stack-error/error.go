// Ошибка с трассой мест, через которые она прошла, и контекстом для лога обработчика.
package stack_error

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/labstack/echo/v4"
)

type TrackerError struct {
	Context  map[string]any
	ErrStack []slog.Attr
	cause    error
}

// TrackErrorStack добавляет место вызова в трассу ошибки. Ошибка без трассы оборачивается.
func TrackErrorStack(err error) *TrackerError {
	var te *TrackerError
	if !errors.As(err, &te) {
		te = &TrackerError{Context: make(map[string]any), cause: err}
	}
	te.ErrStack = append(te.ErrStack, callerAttr(err))
	return te
}

// AddContext добавляет значение в контекст, уже заданный ключ не перезаписывается.
func (te *TrackerError) AddContext(k string, v any) *TrackerError {
	if _, ok := te.Context[k]; !ok {
		te.Context[k] = v
	}
	return te
}

func (te *TrackerError) Error() string {
	if te.cause != nil {
		return te.cause.Error()
	}
	return "TrackerError"
}

func (te *TrackerError) Unwrap() error {
	return te.cause
}

// Attrs возвращает контекст и трассу ошибки как атрибуты slog.
func (te *TrackerError) Attrs() []any {
	res := make([]any, 0, len(te.Context)+len(te.ErrStack))
	for k, v := range te.Context {
		res = append(res, slog.Any(k, v))
	}
	for i, attr := range te.ErrStack {
		res = append(res, slog.String(fmt.Sprintf("trace.%d", i), attr.Value.String()))
	}
	return res
}

// LogError пишет ошибку обработчика в лог вместе с методом и адресом запроса.
func LogError(c echo.Context, err error) {
	var te *TrackerError
	var attrs []any
	if errors.As(err, &te) {
		attrs = te.Attrs()
	}
	attrs = append(attrs, slog.String("err", err.Error()))

	if c != nil {
		attrs = append(attrs,
			slog.String("method", c.Request().Method),
			slog.String("url", c.Request().URL.String()))
	}

	slog.With(attrs...).Error("Handler error")
}

func callerAttr(err error) slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.String("trace", "unknown")
	}
	_, file := filepath.Split(path)
	return slog.String("trace", fmt.Sprintf("%s:%d %s", file, no, err.Error()))
}
