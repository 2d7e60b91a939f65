package validator

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomRules() {
	v.registerValidation("notblank", validateNotBlank, map[string]string{
		LangEN: "{0} must not be blank",
		LangZH: "{0}不能为空白",
	})
	v.registerValidation("httpurl", validateHTTPURL, map[string]string{
		LangEN: "{0} must be an absolute http(s) URL",
		LangZH: "{0}必须是完整的 http(s) 地址",
	})
}

// validateNotBlank 字符串去除首尾空白后不能为空。
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateHTTPURL 必须是带主机的 http 或 https 地址。
func validateHTTPURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
