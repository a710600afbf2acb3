package domain

import "errors"

var (
	ErrUnknownDocumentKind = errors.New("unknown_document_kind")
	ErrDocumentNotFound    = errors.New("document_not_found")
)
