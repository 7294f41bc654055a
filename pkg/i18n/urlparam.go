package i18n

import (
	"net/url"
)

// DefaultQueryParam is the query parameter carrying the active language.
const DefaultQueryParam = "lang"

// RewriteLangParam returns a copy of u whose language parameter reflects n:
// present and equal to n.Active when the tenant offers a choice, absent
// otherwise. The boolean reports whether the URL changed.
func RewriteLangParam(u *url.URL, param string, n Negotiated) (*url.URL, bool) {
	if param == "" {
		param = DefaultQueryParam
	}

	out := *u
	q := out.Query()
	current, present := q[param]

	if n.HasChoice {
		if len(current) == 1 && current[0] == n.Active {
			return &out, false
		}
		q.Set(param, n.Active)
	} else {
		if !present {
			return &out, false
		}
		q.Del(param)
	}

	out.RawQuery = q.Encode()
	return &out, true
}
