// DAO (Data Access Object) - хранение постов блога и их документов в базе данных.
//
// Основные возможности:
//   - Модель Post с документом редактора в JSONB колонке.
//   - GormStore: создание, чтение, обновление и удаление постов.
//   - DocumentStore: чтение и запись JSON документа по идентификатору поста.
//   - Генерация UUID и slug, постраничная выборка.
package dao

import (
	"errors"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrNotFound возвращается, если пост с указанным идентификатором или slug не найден.
var ErrNotFound = errors.New("post not found")

// Models - все модели пакета для AutoMigrate.
var Models = []any{&Post{}}

func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// Migrate создает и обновляет таблицы всех моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

// -migration
type PaginationResponse struct {
	Count  int64 `json:"count"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Result any   `json:"result"`
}

func PaginationRequest(offset int, limit int, query *gorm.DB, target any) (res PaginationResponse, err error) {
	// Count query
	if err := query.Session(&gorm.Session{}).Model(target).Count(&res.Count).Error; err != nil {
		return res, err
	}

	// Data query
	if err := query.Offset(offset).Limit(limit).Find(target).Error; err != nil {
		return res, err
	}

	res.Result = target
	res.Limit = limit
	res.Offset = offset

	return res, nil
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
