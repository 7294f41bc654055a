package publicmenu

import "errors"

var (
	ErrNilResolver = errors.New("publicmenu: nil resolver")
	ErrNilCatalog  = errors.New("publicmenu: nil catalog")
)
