// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/i18n"
)

// I18nMiddleware picks the first supported language from Accept-Language,
// e.g. "fr-FR,fr;q=0.9,en;q=0.8" resolves to "fr".
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := defaultLang

		for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
			tag := strings.TrimSpace(strings.Split(part, ";")[0])
			if tag == "" {
				continue
			}
			base := strings.ToLower(strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0])
			if i18n.IsSupported(base) {
				lang = base
				break
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}
