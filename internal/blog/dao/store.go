package dao

import (
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
)

// DocumentStore хранит JSON документы редактора. Хранилище не разбирает документ при чтении,
// разбор и канонизация выполняются вызывающей стороной.
type DocumentStore interface {
	FetchDocumentJSON(ctx context.Context, id uuid.UUID) ([]byte, error)
	StoreDocumentJSON(ctx context.Context, id uuid.UUID, data []byte) error
}

// PostUpdate - изменения поста. Nil поля не изменяются.
type PostUpdate struct {
	Title       *string
	Content     *edtypes.Document
	Status      *PostStatus
	Language    *string
	ExternalURL *string
}

// GormStore - хранилище постов на GORM.
type GormStore struct {
	db *gorm.DB
}

var _ DocumentStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// listColumns - колонки списка постов, документ в список не входит.
var listColumns = []string{"id", "user_id", "title", "slug", "status", "language", "content_type", "excerpt", "thumbnail_url", "created_at", "updated_at"}

// metaColumns - все колонки поста, кроме документа.
var metaColumns = append(slices.Clone(listColumns), "post_group_id", "external_url")

// CreatePost сохраняет новый пост. Slug формируется из заголовка, при совпадении время сдвигается на миллисекунду.
func (s *GormStore) CreatePost(ctx context.Context, post *Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, post.Title, time.Now())
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(post).Error
	})
}

// GetPost возвращает пост по идентификатору.
func (s *GormStore) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

// GetUserPost возвращает пост пользователя. Чужой пост не отличается от отсутствующего.
func (s *GormStore) GetUserPost(ctx context.Context, userID, id uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&post).Error; err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

// GetUserPostMeta возвращает пост пользователя без документа. Пост с неразбираемым документом
// можно загрузить только так.
func (s *GormStore) GetUserPostMeta(ctx context.Context, userID, id uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).
		Select(metaColumns).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&post).Error; err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

// GetPublishedPostBySlug возвращает опубликованный пост по slug.
func (s *GormStore) GetPublishedPostBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		Where("status = ?", StatusPublished).
		First(&post).Error; err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

// ListPosts возвращает посты пользователя без документов, последние измененные первыми.
func (s *GormStore) ListPosts(ctx context.Context, userID uuid.UUID, offset, limit int) (PaginationResponse, error) {
	var posts []Post
	query := s.db.WithContext(ctx).
		Select(listColumns).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id")
	return PaginationRequest(offset, limit, query, &posts)
}

// UpdatePost применяет изменения к посту пользователя. При смене заголовка slug формируется заново,
// при смене документа пересчитываются краткое содержание и миниатюра. Если документ заменяется,
// старый документ не читается, так что пост с поврежденным документом можно исправить.
func (s *GormStore) UpdatePost(ctx context.Context, userID, id uuid.UUID, upd PostUpdate) (*Post, error) {
	var post Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id).Where("user_id = ?", userID)
		if upd.Content != nil {
			query = query.Select(metaColumns)
		}
		if err := query.First(&post).Error; err != nil {
			return translateErr(err)
		}

		if upd.Title != nil && *upd.Title != post.Title {
			slug, err := uniqueSlug(tx, *upd.Title, time.Now())
			if err != nil {
				return err
			}
			post.Title = *upd.Title
			post.Slug = slug
		}
		if upd.Content != nil {
			post.Content = *upd.Content
			post.DeriveSummary()
		}
		if upd.Status != nil {
			post.Status = *upd.Status
		}
		if upd.Language != nil {
			post.Language = *upd.Language
		}
		if upd.ExternalURL != nil {
			post.ExternalURL = upd.ExternalURL
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePostContent заменяет документ поста и пересчитывает краткое содержание и миниатюру.
func (s *GormStore) UpdatePostContent(ctx context.Context, id uuid.UUID, doc *edtypes.Document) error {
	if doc == nil {
		doc = &edtypes.Document{}
	}
	post := Post{Content: *doc}
	post.DeriveSummary()

	res := s.db.WithContext(ctx).
		Model(&Post{}).
		Where("id = ?", id).
		Select("content_json", "excerpt", "thumbnail_url", "updated_at").
		Updates(&Post{
			Content:      post.Content,
			Excerpt:      post.Excerpt,
			ThumbnailURL: post.ThumbnailURL,
			UpdatedAt:    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost удаляет пост пользователя.
func (s *GormStore) DeletePost(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Delete(&Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FetchDocumentJSON возвращает канонический JSON документа поста.
func (s *GormStore) FetchDocumentJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var post Post
	if err := s.db.WithContext(ctx).
		Select("id", "content_json").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, translateErr(err)
	}
	return tiptap.Serialize(&post.Content), nil
}

// StoreDocumentJSON разбирает JSON документа и сохраняет его каноническую форму.
// Для неверного JSON возвращается *tiptap.ParseError, пост не изменяется.
func (s *GormStore) StoreDocumentJSON(ctx context.Context, id uuid.UUID, data []byte) error {
	doc, err := tiptap.Parse(data)
	if err != nil {
		return err
	}
	return s.UpdatePostContent(ctx, id, doc)
}

func uniqueSlug(tx *gorm.DB, title string, now time.Time) (string, error) {
	for {
		slug := NewSlug(title, now)
		var exists bool
		if err := tx.Model(&Post{}).
			Select("count(*) > 0").
			Where("slug = ?", slug).
			Find(&exists).Error; err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		now = now.Add(time.Millisecond)
	}
}
