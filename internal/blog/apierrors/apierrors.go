// Пакет содержит определения ошибок API блога. Каждая ошибка имеет код, статус HTTP и описание
// на английском и русском языках.
//
// Основные возможности:
//   - Ошибки запросов, постов, документов и отображения.
//   - Форматирование сообщений об ошибках с аргументами.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - request errors
	ErrGeneric          = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "bad request", RuErr: "Некорректный запрос"}
	ErrInternal         = DefinedError{Code: 1002, StatusCode: http.StatusInternalServerError, Err: "internal server error", RuErr: "Внутренняя ошибка сервера"}
	ErrEntityToLarge    = DefinedError{Code: 1003, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", RuErr: "Слишком большой запрос"}
	ErrUserIDRequired   = DefinedError{Code: 1004, StatusCode: http.StatusUnauthorized, Err: "user id is required", RuErr: "Не указан пользователь"}
	ErrInvalidID        = DefinedError{Code: 1005, StatusCode: http.StatusBadRequest, Err: "invalid id %s", RuErr: "Некорректный идентификатор %s"}
	ErrValidationFailed = DefinedError{Code: 1006, StatusCode: http.StatusBadRequest, Err: "validation failed: %s", RuErr: "Ошибка проверки данных: %s"}

	// 2*** - post errors
	ErrPostNotFound         = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "post not found", RuErr: "Пост не найден"}
	ErrPostTitleRequired    = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "title and content are required", RuErr: "Заголовок и содержимое обязательны"}
	ErrPostStatusInvalid    = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "status must be draft or published", RuErr: "Статус должен быть draft или published"}
	ErrPostExternalURLEmpty = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "link post requires external url", RuErr: "Для поста-ссылки необходим внешний адрес"}

	// 3*** - document errors
	ErrDocumentInvalid     = DefinedError{Code: 3001, StatusCode: http.StatusBadRequest, Err: "invalid document: %s", RuErr: "Некорректный документ: %s"}
	ErrDocumentUnavailable = DefinedError{Code: 3002, StatusCode: http.StatusUnprocessableEntity, Err: "content unavailable", RuErr: "Содержимое недоступно"}
	ErrHTMLImportFailed    = DefinedError{Code: 3003, StatusCode: http.StatusBadRequest, Err: "html import failed", RuErr: "Не удалось импортировать HTML"}

	// 4*** - render errors
	ErrRenderFormat = DefinedError{Code: 4001, StatusCode: http.StatusBadRequest, Err: "unsupported format %s", RuErr: "Неподдерживаемый формат %s"}
	ErrRenderFailed = DefinedError{Code: 4002, StatusCode: http.StatusInternalServerError, Err: "render failed", RuErr: "Не удалось отобразить документ"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.ReplaceAll(e.Err, "%s", "")
		e.RuErr = strings.ReplaceAll(e.RuErr, "%s", "")
	}
	return e
}
