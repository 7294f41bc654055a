package i18n

import (
	"context"
	"log/slog"
)

type localeContextKey struct{}

// SetLocale stores the active language in the context.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the language stored in the context, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey{}).(string)
	if locale == "" {
		return DefaultLanguage
	}
	return locale
}

// LoggerExtractor adds a "lang" attribute when a locale is set in the context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		locale, _ := ctx.Value(localeContextKey{}).(string)
		if locale == "" {
			return slog.Attr{}, false
		}
		return slog.String("lang", locale), true
	}
}
