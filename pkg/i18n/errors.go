package i18n

import "errors"

var (
	ErrInvalidLanguage = errors.New("i18n: invalid language code")
	ErrCatalogLoad     = errors.New("i18n: failed to load translation catalog")
	ErrNilAdapter      = errors.New("i18n: translation adapter is nil")

	// Parsing
	ErrParsingCancelled  = errors.New("i18n: translation parsing cancelled")
	ErrFailedToParseJSON = errors.New("i18n: failed to parse JSON content")
	ErrFailedToParseYAML = errors.New("i18n: failed to parse YAML content")

	// File system
	ErrFailedToReadFile      = errors.New("i18n: failed to read translation file")
	ErrFailedToReadDirectory = errors.New("i18n: failed to read translation directory")
	ErrNoTranslations        = errors.New("i18n: no translations found")
)
