package gate

import "errors"

var (
	ErrNilResolver        = errors.New("gate: resolver is nil")
	ErrNotReady           = errors.New("gate: tenant configuration is not ready")
	ErrLanguageNotApplied = errors.New("gate: failed to apply language")
)
