package gate

import (
	"slices"

	"github.com/dmitrymomot/menukit/pkg/i18n"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

// Inputs is everything the gate tracks for the current tenant key.
type Inputs struct {
	Key         string
	ResolvedKey string
	State       State
	Record      *publicconfig.Record
	Negotiated  *i18n.Negotiated
	AppliedLang string
	Err         error
}

// Snapshot is the rendering-facing view of a gate.
type Snapshot struct {
	Key   string
	State State

	Loading   bool
	Error     bool
	NotFound  bool
	IsReady   bool
	LangReady bool
	// CanFetch gates every further tenant-scoped request of the page.
	CanFetch bool

	Langs            []string
	Lang             string
	DefaultLang      string
	HasMultipleLangs bool

	Record *publicconfig.Record
	Err    error
}

// Derive computes a Snapshot from in. It has no side effects.
//
// A gate without a tenant key is idle: Pending but not loading.
// IsReady requires the resolution to belong to the current key, and
// LangReady requires the negotiated language to have been applied.
func Derive(in Inputs) Snapshot {
	s := Snapshot{
		Key:      in.Key,
		State:    in.State,
		Loading:  in.State == StatePending && in.Key != "",
		Error:    in.State == StateError,
		NotFound: in.State == StateNotFound,
		Err:      in.Err,
	}

	s.IsReady = in.State == StateReady &&
		!s.Loading && !s.Error && !s.NotFound &&
		in.Key != "" && in.ResolvedKey == in.Key

	if s.IsReady {
		s.Record = in.Record
		if n := in.Negotiated; n != nil {
			s.Langs = slices.Clone(n.Allowed)
			s.Lang = n.Active
			s.DefaultLang = n.ServerDefault
			s.HasMultipleLangs = n.HasChoice
			s.LangReady = in.AppliedLang != "" && in.AppliedLang == n.Active
		}
	}

	s.CanFetch = s.IsReady && !s.NotFound && s.LangReady
	return s
}
