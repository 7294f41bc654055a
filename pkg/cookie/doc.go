// Package cookie wraps net/http cookies with shared defaults and HMAC-SHA256
// signing.
//
// The public site keeps the visitor's per-tenant language preference in a
// signed cookie, so a tampered value is discarded instead of trusted.
//
// # Usage
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}) // at least 32 bytes
//	if err != nil {
//		return err
//	}
//
//	man.SetSigned(w, "public.lang.viva", "bg", cookie.WithMaxAge(86400))
//	lang, err := man.GetSigned(r, "public.lang.viva")
//
// Several secrets may be configured for rotation: the first signs new
// cookies, every secret is tried when verifying.
//
// # Errors
//
// GetSigned returns ErrCookieNotFound, ErrInvalidFormat or ErrInvalidSignature.
package cookie
