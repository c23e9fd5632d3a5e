// Package i18n turns reason tokens into user facing messages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"go.uber.org/zap"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

var supportedTags = []language.Tag{
	language.English,
	language.French,
}

// Messages resolves reason tokens for the supported languages.
type Messages struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
}

func New(defaultLocale string) *Messages {
	fallback := language.English
	if tag, err := language.Parse(defaultLocale); err == nil {
		fallback, _, _ = language.NewMatcher(supportedTags).Match(tag)
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, messages := range catalogs {
		for reason, text := range messages {
			if err := b.SetString(tag, string(reason), text); err != nil {
				zap.L().Warn("skipping message", zap.String("reason", string(reason)), zap.Error(err))
			}
		}
	}

	return &Messages{
		catalog:  b,
		matcher:  language.NewMatcher(supportedTags),
		fallback: fallback,
	}
}

// Translator returns a translator for the best supported match of tag.
func (m *Messages) Translator(tag language.Tag) *Translator {
	matched, _, _ := m.matcher.Match(tag)
	base, _ := matched.Base()
	for _, supported := range supportedTags {
		if sb, _ := supported.Base(); sb == base {
			matched = supported
			break
		}
	}
	return &Translator{printer: message.NewPrinter(matched, message.Catalog(m.catalog))}
}

// ForAcceptLanguage picks a translator from an Accept-Language header value.
func (m *Messages) ForAcceptLanguage(header string) *Translator {
	header = strings.TrimSpace(header)
	if header == "" {
		return m.Translator(m.fallback)
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return m.Translator(m.fallback)
	}
	matched, _, _ := m.matcher.Match(tags...)
	return m.Translator(matched)
}

// Default is the translator for the configured default locale.
func (m *Messages) Default() *Translator {
	return m.Translator(m.fallback)
}

type Translator struct {
	printer *message.Printer
}

// Translate returns the localized message for reason, or the token itself
// when no message exists.
func (t *Translator) Translate(reason domain.Reason) string {
	if reason == domain.ReasonNone {
		return ""
	}
	return t.printer.Sprintf(string(reason))
}
