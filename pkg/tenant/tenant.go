package tenant

import "strings"

// MaxKeyLength is the longest accepted tenant key.
const MaxKeyLength = 63

// NormalizeKey trims surrounding whitespace from a raw tenant key. Keys are
// case-sensitive and are not folded.
func NormalizeKey(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateKey reports whether key can address a tenant: 1 to 63 ASCII
// letters, digits, hyphens or underscores.
func ValidateKey(key string) error {
	if key == "" || len(key) > MaxKeyLength {
		return ErrInvalidIdentifier
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ErrInvalidIdentifier
		}
	}
	return nil
}

// ParseKey normalizes raw and validates the result.
func ParseKey(raw string) (string, error) {
	key := NormalizeKey(raw)
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}
