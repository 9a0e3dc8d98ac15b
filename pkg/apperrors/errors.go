package apperrors

import "errors"

var (
	ErrInvalidSchema       = errors.New("invalid schema")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	ErrUnknownDatabase     = errors.New("database not found in configuration")
	ErrNoSchema            = errors.New("no schema provided and no previous schema available")
	ErrNoRelationships     = errors.New("no relationships provided and no previous relationships available")
)
