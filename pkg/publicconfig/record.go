package publicconfig

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/dmitrymomot/menukit/pkg/i18n"
)

// Record is the public configuration of one tenant. Records are immutable
// once built and are shared by pointer between cache and callers.
type Record struct {
	TenantID         string
	TenantName       string
	UILanguages      []string
	UIDefault        string
	ContentLanguages []string
	ContentDefault   string
}

// Payload is the JSON document served by the configuration endpoint.
type Payload struct {
	Tenant  *TenantInfo   `json:"tenant,omitempty"`
	UI      LanguageBlock `json:"ui"`
	Content LanguageBlock `json:"content"`
}

// TenantInfo holds optional display attributes.
type TenantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LanguageBlock declares a language set and its default.
type LanguageBlock struct {
	Langs   []string `json:"langs"`
	Default string   `json:"default"`
}

// ParsePayload decodes a configuration document into a normalized Record.
func ParsePayload(body []byte) (*Record, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	return NewRecord(p), nil
}

// NewRecord normalizes p into a Record. Language codes are case-folded and
// stripped to their base subtag, duplicates are dropped, an empty set becomes
// [i18n.DefaultLanguage] and a default outside its set is replaced by the
// first element of the set.
func NewRecord(p Payload) *Record {
	r := &Record{}
	if p.Tenant != nil {
		r.TenantID = p.Tenant.ID
		r.TenantName = p.Tenant.Name
	}
	r.UILanguages, r.UIDefault = normalizeBlock(p.UI)
	r.ContentLanguages, r.ContentDefault = normalizeBlock(p.Content)
	return r
}

func normalizeBlock(b LanguageBlock) ([]string, string) {
	langs := i18n.NormalizeLangs(b.Langs)
	if len(langs) == 0 {
		langs = []string{i18n.DefaultLanguage}
	}
	def := i18n.NormalizeLang(b.Default)
	if !slices.Contains(langs, def) {
		def = langs[0]
	}
	return langs, def
}

// LanguageSets returns the record's language declaration for negotiation.
func (r *Record) LanguageSets() i18n.LanguageSets {
	return i18n.LanguageSets{
		UI:             slices.Clone(r.UILanguages),
		UIDefault:      r.UIDefault,
		Content:        slices.Clone(r.ContentLanguages),
		ContentDefault: r.ContentDefault,
	}
}

// Payload converts the record back to its wire form.
func (r *Record) Payload() Payload {
	p := Payload{
		UI:      LanguageBlock{Langs: slices.Clone(r.UILanguages), Default: r.UIDefault},
		Content: LanguageBlock{Langs: slices.Clone(r.ContentLanguages), Default: r.ContentDefault},
	}
	if r.TenantID != "" || r.TenantName != "" {
		p.Tenant = &TenantInfo{ID: r.TenantID, Name: r.TenantName}
	}
	return p
}
