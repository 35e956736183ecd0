package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleRU = "ru-RU"
	LocaleEN = "en-US"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleRU
)

var supportedTags = []language.Tag{
	language.MustParse(LocaleRU),
	language.MustParse(LocaleEN),
}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 解析请求语言：优先 query 参数 lang，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言描述匹配到受支持的语言
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedTags[index].String()
}

// T 按语言取文案，缺失时回退默认语言，再缺失返回 key
func T(locale, key string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Tf 取文案并格式化
func Tf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
