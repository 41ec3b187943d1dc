// Package auscouterrors provides common AuScoutDS error definitions.
package auscouterrors

import "errors"

var (
	ErrArity           = errors.New("auscout: wrong number of arguments")
	ErrTypeConflict    = errors.New("key exists for different type. Delete first.")
	ErrMissingKey      = errors.New("auscout: no such key")
	ErrParse           = errors.New("auscout: could not parse argument")
	ErrLength          = errors.New("auscout: hash/toggle byte arrays empty or of unequal length")
	ErrDuplicateID     = errors.New("auscout: id exists")
	ErrMissingID       = errors.New("auscout: no such id")
	ErrEncodingVersion = errors.New("auscout: unsupported snapshot encoding version")
	ErrTogglePopcount  = errors.New("auscout: toggle mask has too many set bits")
)
