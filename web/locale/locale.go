// Package locale resolves user-facing messages from the TOML translation bundle.
package locale

import (
	"io/fs"

	"github.com/camdash/camdash/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const localizerKey = "localizer"

// Bundle holds the parsed translations. It is read-only after construction and
// safe for concurrent use.
type Bundle struct {
	bundle *i18n.Bundle
}

// NewBundle parses every file under dir in fsys. English is the fallback.
func NewBundle(fsys fs.FS, dir string) (*Bundle, error) {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Bundle{bundle: bundle}, nil
}

// Localizer returns a localizer for the given language preferences.
func (b *Bundle) Localizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(b.bundle, langs...)
}

// Middleware picks the language from the "lang" cookie or Accept-Language and
// stores a localizer in the gin context.
func (b *Bundle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}
		c.Set(localizerKey, b.Localizer(lang))
		c.Next()
	}
}

// Translate localizes key with the given localizer, falling back to the key
// itself when the message is unknown.
func Translate(localizer *i18n.Localizer, key string, data map[string]any) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		logger.Warningf("Failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// GetLocalizer returns the localizer stored by Middleware, or nil.
func GetLocalizer(c *gin.Context) *i18n.Localizer {
	if v, ok := c.Get(localizerKey); ok {
		localizer, _ := v.(*i18n.Localizer)
		return localizer
	}
	return nil
}

// I18n localizes key for the language of the current request.
func I18n(c *gin.Context, key string) string {
	return Translate(GetLocalizer(c), key, nil)
}
