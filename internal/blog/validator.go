// Валидация запросов API через go-playground/validator.
package blog

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"github.com/true1ck/blog-editor/internal/blog/dao"
)

var (
	slugReg     = regexp.MustCompile(`^[a-z0-9-]+$`)
	languageReg = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	validations := map[string]validator.Func{
		"slug":        slugValidator,
		"postTitle":   postTitleValidator,
		"postStatus":  postStatusValidator,
		"contentType": contentTypeValidator,
		"language":    languageValidator,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil
		}
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); !ok {
			return nil
		}
		return err
	}
	return nil
}

func slugValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	return slugReg.MatchString(value) && lenStr >= 3 && lenStr <= 500
}

func postTitleValidator(fl validator.FieldLevel) bool {
	lenStr := utf8.RuneCountInString(fl.Field().String())
	return lenStr >= 1 && lenStr <= 500
}

func postStatusValidator(fl validator.FieldLevel) bool {
	return dao.PostStatus(fl.Field().String()).Valid()
}

func contentTypeValidator(fl validator.FieldLevel) bool {
	return dao.ContentType(fl.Field().String()).Valid()
}

func languageValidator(fl validator.FieldLevel) bool {
	return languageReg.MatchString(fl.Field().String())
}
