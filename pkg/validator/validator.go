// Package validator wraps go-playground/validator with config-friendly field names,
// a few extra rules, and English/Chinese error messages.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Language constants for i18n support.
const (
	LangEN = "en"
	LangZH = "zh"
)

// Validator wraps go-playground/validator with additional features.
type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	trans    map[string]ut.Translator
}

var (
	globalValidator *Validator
	once            sync.Once
)

// Global returns the shared validator, built on first use.
func Global() *Validator {
	once.Do(func() {
		globalValidator = New()
	})
	return globalValidator
}

// New creates a Validator.
func New() *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		trans:    make(map[string]ut.Translator),
	}

	// 字段名优先取 mapstructure 标签，与配置键保持一致
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	enLocale := en.New()
	v.uni = ut.New(enLocale, enLocale, zh.New())

	enTrans, _ := v.uni.GetTranslator(LangEN)
	_ = en_translations.RegisterDefaultTranslations(v.validate, enTrans)
	v.trans[LangEN] = enTrans

	zhTrans, _ := v.uni.GetTranslator(LangZH)
	_ = zh_translations.RegisterDefaultTranslations(v.validate, zhTrans)
	v.trans[LangZH] = zhTrans

	v.registerCustomRules()
	return v
}

// Validate validates a struct and returns the raw validator error.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateWithLang validates a struct and returns translated errors, or nil.
func (v *Validator) ValidateWithLang(s interface{}, lang string) *ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("unknown", "unknown", err.Error())
	}
	return v.translateErrors(fieldErrs, v.GetTranslator(lang))
}

// GetTranslator returns a translator for the specified language, English by default.
func (v *Validator) GetTranslator(lang string) ut.Translator {
	if trans, ok := v.trans[lang]; ok {
		return trans
	}
	return v.trans[LangEN]
}

func (v *Validator) translateErrors(errs validator.ValidationErrors, trans ut.Translator) *ValidationErrors {
	result := &ValidationErrors{Errors: make([]FieldError, 0, len(errs))}
	for _, err := range errs {
		result.Errors = append(result.Errors, FieldError{
			Field:     err.Field(),
			Namespace: err.Namespace(),
			Tag:       err.Tag(),
			Param:     err.Param(),
			Message:   err.Translate(trans),
		})
	}
	return result
}

// registerValidation registers a rule with a message per language ({0} is the field).
func (v *Validator) registerValidation(tag string, fn validator.Func, messages map[string]string) {
	_ = v.validate.RegisterValidation(tag, fn)
	for lang, message := range messages {
		trans := v.GetTranslator(lang)
		msg := message
		_ = v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, msg, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
	}
}

// Struct validates s with the global validator and English messages.
func Struct(s interface{}) *ValidationErrors {
	return Global().ValidateWithLang(s, LangEN)
}
