package dao

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
)

// ExcerptLength - максимальная длина краткого содержания поста в символах.
const ExcerptLength = 500

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type ContentType string

const (
	ContentTipTap ContentType = "tiptap"
	ContentLink   ContentType = "link"
)

func (t ContentType) Valid() bool {
	return t == ContentTipTap || t == ContentLink
}

type Post struct {
	// id uuid IS_NULL:NO
	ID uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	// user_id uuid IS_NULL:NO
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	// title varchar(500) IS_NULL:NO
	Title string `json:"title" gorm:"type:varchar(500);not null"`
	// slug varchar(500) IS_NULL:NO
	Slug string `json:"slug" gorm:"type:varchar(500);uniqueIndex;not null"`
	// status varchar(20) IS_NULL:NO
	Status PostStatus `json:"status" gorm:"type:varchar(20);index;not null;default:draft"`
	// language varchar(10) IS_NULL:NO
	Language string `json:"language" gorm:"type:varchar(10);not null;default:en"`
	// post_group_id uuid IS_NULL:YES
	PostGroupID *uuid.UUID `json:"post_group_id,omitempty" gorm:"type:uuid"`
	// content_type varchar(20) IS_NULL:NO
	ContentType ContentType `json:"content_type" gorm:"type:varchar(20);not null;default:tiptap"`
	// external_url text IS_NULL:YES
	ExternalURL *string `json:"external_url,omitempty"`
	// content_json jsonb IS_NULL:NO
	Content edtypes.Document `json:"content_json" gorm:"column:content_json;not null"`
	// excerpt varchar(500) IS_NULL:YES
	Excerpt string `json:"excerpt" gorm:"type:varchar(500)"`
	// thumbnail_url text IS_NULL:YES
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsNil() {
		p.ID = GenUUID()
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.ContentType == "" {
		p.ContentType = ContentTipTap
	}
	if p.Language == "" {
		p.Language = "en"
	}
	if p.Slug == "" {
		p.Slug = NewSlug(p.Title, time.Now())
	}
	p.DeriveSummary()
	return nil
}

// DeriveSummary пересчитывает краткое содержание и миниатюру из документа.
func (p *Post) DeriveSummary() {
	p.Excerpt = p.Content.Excerpt(ExcerptLength)
	p.ThumbnailURL = nil
	if src := p.Content.Thumbnail(); src != "" {
		p.ThumbnailURL = &src
	}
}
