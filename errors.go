package gokv

import "github.com/arvidsson/gokv/internal/errs"

// The public error types a Store's operations can return, aliased from
// internal/errs so callers can use errors.As(err, &gokv.KeyNotFound{})
// without reaching into an internal package, following the
// crt.NoRecordFound / filehashmap.NoRecordFound pattern of exposing a
// small set of named error structs rather than sentinel values.
type (
	// KeyNotFound - No record exists for the requested key.
	KeyNotFound = errs.KeyNotFound

	// WrongKind - The key exists but holds the other value kind (string
	// vs list).
	WrongKind = errs.WrongKind

	// Corrupted - The file is no longer trustworthy: a short read of a
	// supposedly live record, or a pointer resolving outside the valid
	// range. The Store must not be used further once this is returned.
	Corrupted = errs.Corrupted

	// KeyTooLong - The key exceeds 1024 bytes.
	KeyTooLong = errs.KeyTooLong

	// InvalidAddressSpaceSize - The requested index size is not a
	// positive multiple of 4.
	InvalidAddressSpaceSize = errs.InvalidAddressSpaceSize

	// MissingPath - No file path was supplied to Open.
	MissingPath = errs.MissingPath
)
