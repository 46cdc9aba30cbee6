package blog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/true1ck/blog-editor/internal/blog/apierrors"
	"github.com/true1ck/blog-editor/internal/blog/dao"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
	errStack "github.com/true1ck/blog-editor/internal/blog/stack-error"
)

// HeaderUserID - заголовок с идентификатором пользователя, который выставляет шлюз авторизации.
const HeaderUserID = "X-User-Id"

type UserContext struct {
	echo.Context
	UserID uuid.UUID
}

// PostContext - пост пользователя. Если документ поста не разбирается, Post загружен без документа,
// а ContentErr содержит ошибку разбора.
type PostContext struct {
	UserContext
	Post       *dao.Post
	ContentErr error
}

type PostCreateRequest struct {
	Title       string          `json:"title" validate:"postTitle"`
	Content     json.RawMessage `json:"content_json"`
	Status      string          `json:"status" validate:"omitempty,postStatus"`
	Language    string          `json:"language" validate:"omitempty,language"`
	ContentType string          `json:"content_type" validate:"omitempty,contentType"`
	ExternalURL *string         `json:"external_url" validate:"omitempty,url"`
	PostGroupID *uuid.UUID      `json:"post_group_id"`
}

type PostUpdateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,postTitle"`
	Content     json.RawMessage `json:"content_json"`
	Status      *string         `json:"status" validate:"omitempty,postStatus"`
	Language    *string         `json:"language" validate:"omitempty,language"`
	ExternalURL *string         `json:"external_url" validate:"omitempty,url"`
}

// UserMiddleware берет пользователя из заголовка X-User-Id.
func UserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(HeaderUserID)
		if raw == "" {
			return EErrorDefined(c, apierrors.ErrUserIDRequired)
		}
		id, err := uuid.FromString(raw)
		if err != nil || id.IsNil() {
			return EErrorDefined(c, apierrors.ErrInvalidID.WithFormattedMessage(raw))
		}
		return next(UserContext{c, id})
	}
}

// PostMiddleware загружает пост пользователя из параметра :postId.
// Пост с поврежденным документом загружается без документа, чтобы его можно было удалить или исправить.
func (s *Services) PostMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uc := c.(UserContext)
		id, err := uuid.FromString(c.Param("postId"))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}

		ctx := c.Request().Context()
		post, err := s.store.GetUserPost(ctx, uc.UserID, id)
		var perr *tiptap.ParseError
		if errors.As(err, &perr) {
			contentErr := err
			if post, err = s.store.GetUserPostMeta(ctx, uc.UserID, id); err == nil {
				return next(PostContext{uc, post, contentErr})
			}
		}
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return EErrorDefined(c, apierrors.ErrPostNotFound)
			}
			return EError(c, errStack.TrackErrorStack(err).AddContext("post_id", id.String()))
		}
		return next(PostContext{uc, post, nil})
	}
}

func (s *Services) AddPostServices(g *echo.Group) {
	g.GET("posts/slug/:slug/", s.getPublishedPost)
	g.GET("posts/slug/:slug/render/", s.renderPublishedPost)

	userGroup := g.Group("posts", UserMiddleware)
	userGroup.GET("/", s.getPostList)
	userGroup.POST("/", s.createPost)

	postGroup := userGroup.Group("/:postId", s.PostMiddleware)
	postGroup.GET("/", s.getPost)
	postGroup.PUT("/", s.updatePost)
	postGroup.DELETE("/", s.deletePost)
	postGroup.PUT("/content/", s.updatePostContent)
	postGroup.GET("/render/", s.renderPost)
}

// getPostList возвращает посты пользователя постранично, параметры offset и limit.
func (s *Services) getPostList(c echo.Context) error {
	user := c.(UserContext)

	offset, limit := 0, 100
	if err := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).
		BindError(); err != nil {
		return EErrorDefined(c, apierrors.ErrGeneric)
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	res, err := s.store.ListPosts(c.Request().Context(), user.UserID, offset, limit)
	if err != nil {
		return EError(c, errStack.TrackErrorStack(err))
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Services) createPost(c echo.Context) error {
	user := c.(UserContext)

	var req PostCreateRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrGeneric)
	}
	if req.Title == "" || len(req.Content) == 0 {
		return EErrorDefined(c, apierrors.ErrPostTitleRequired)
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}
	if dao.ContentType(req.ContentType) == dao.ContentLink && (req.ExternalURL == nil || *req.ExternalURL == "") {
		return EErrorDefined(c, apierrors.ErrPostExternalURLEmpty)
	}

	doc, err := tiptap.Parse(req.Content)
	if err != nil {
		return s.documentError(c, err)
	}

	post := dao.Post{
		UserID:      user.UserID,
		Title:       req.Title,
		Status:      dao.PostStatus(req.Status),
		Language:    req.Language,
		ContentType: dao.ContentType(req.ContentType),
		ExternalURL: req.ExternalURL,
		PostGroupID: req.PostGroupID,
		Content:     *doc,
	}
	if err := s.store.CreatePost(c.Request().Context(), &post); err != nil {
		return EError(c, errStack.TrackErrorStack(err).AddContext("user_id", user.UserID.String()))
	}
	return c.JSON(http.StatusCreated, post)
}

func (s *Services) getPost(c echo.Context) error {
	pc := c.(PostContext)
	if pc.ContentErr != nil {
		return s.contentUnavailable(c, pc.ContentErr, "post_id", pc.Post.ID.String())
	}
	return c.JSON(http.StatusOK, pc.Post)
}

func (s *Services) updatePost(c echo.Context) error {
	pc := c.(PostContext)

	var req PostUpdateRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrGeneric)
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}

	upd := dao.PostUpdate{
		Title:       req.Title,
		Language:    req.Language,
		ExternalURL: req.ExternalURL,
	}
	if req.Status != nil {
		status := dao.PostStatus(*req.Status)
		upd.Status = &status
	}
	if len(req.Content) > 0 {
		doc, err := tiptap.Parse(req.Content)
		if err != nil {
			return s.documentError(c, err)
		}
		upd.Content = doc
	}

	post, err := s.store.UpdatePost(c.Request().Context(), pc.UserID, pc.Post.ID, upd)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}
		var perr *tiptap.ParseError
		if errors.As(err, &perr) {
			return s.contentUnavailable(c, err, "post_id", pc.Post.ID.String())
		}
		return EError(c, errStack.TrackErrorStack(err).AddContext("post_id", pc.Post.ID.String()))
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Services) deletePost(c echo.Context) error {
	pc := c.(PostContext)
	if err := s.store.DeletePost(c.Request().Context(), pc.UserID, pc.Post.ID); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}
		return EError(c, errStack.TrackErrorStack(err).AddContext("post_id", pc.Post.ID.String()))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted"})
}

// updatePostContent заменяет документ поста JSON из тела запроса и возвращает его каноническую форму.
func (s *Services) updatePostContent(c echo.Context) error {
	pc := c.(PostContext)

	doc, err := tiptap.ParseJSON(c.Request().Body)
	if err != nil {
		return s.documentError(c, err)
	}
	if err := s.store.UpdatePostContent(c.Request().Context(), pc.Post.ID, doc); err != nil {
		return EError(c, errStack.TrackErrorStack(err).AddContext("post_id", pc.Post.ID.String()))
	}
	return c.JSONBlob(http.StatusOK, tiptap.Serialize(doc))
}

func (s *Services) renderPost(c echo.Context) error {
	pc := c.(PostContext)
	format := formatParam(c)
	if !validFormat(format) {
		return EErrorDefined(c, apierrors.ErrRenderFormat.WithFormattedMessage(format))
	}
	if pc.ContentErr != nil {
		return s.contentUnavailable(c, pc.ContentErr, "post_id", pc.Post.ID.String())
	}
	return s.writeDocument(c, &pc.Post.Content, format, pc.Post.Title)
}

// getPublishedPost возвращает опубликованный пост без авторизации.
func (s *Services) getPublishedPost(c echo.Context) error {
	post, err := s.publishedPost(c)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	return c.JSON(http.StatusOK, post)
}

// renderPublishedPost отображает опубликованный пост. Для ссылки на внешний ресурс выполняется перенаправление.
func (s *Services) renderPublishedPost(c echo.Context) error {
	format := formatParam(c)
	if !validFormat(format) {
		return EErrorDefined(c, apierrors.ErrRenderFormat.WithFormattedMessage(format))
	}

	post, err := s.publishedPost(c)
	if err != nil || post == nil {
		return err
	}
	if post.ContentType == dao.ContentLink && post.ExternalURL != nil && format == FormatHTML {
		return c.Redirect(http.StatusFound, *post.ExternalURL)
	}
	c.Response().Header().Set("X-Post-Language", post.Language)
	return s.writeDocument(c, &post.Content, format, post.Title)
}

// publishedPost загружает опубликованный пост по slug. Если ответ уже отправлен, пост равен nil.
func (s *Services) publishedPost(c echo.Context) (*dao.Post, error) {
	slug := c.Param("slug")
	post, err := s.store.GetPublishedPostBySlug(c.Request().Context(), slug)
	if err == nil {
		return post, nil
	}

	if errors.Is(err, dao.ErrNotFound) {
		return nil, EErrorDefined(c, apierrors.ErrPostNotFound)
	}
	var perr *tiptap.ParseError
	if errors.As(err, &perr) {
		return nil, s.contentUnavailable(c, err, "slug", slug)
	}
	return nil, EError(c, errStack.TrackErrorStack(err).AddContext("slug", slug))
}

// contentUnavailable отвечает 422 на сохраненный документ, который не удалось разобрать.
func (s *Services) contentUnavailable(c echo.Context, err error, key, value string) error {
	s.metrics.ParseErrors.Inc()
	errStack.LogError(c, errStack.TrackErrorStack(err).AddContext(key, value))
	return EErrorDefined(c, apierrors.ErrDocumentUnavailable)
}
