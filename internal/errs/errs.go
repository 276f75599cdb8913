// Package errs holds the store's typed error conditions, shaped like
// crt.NoRecordFound / filehashmap.NoRecordFound: a small struct
// implementing error, usable both as a sentinel (errors.Is(err,
// errs.KeyNotFound{})) and, when msg is set, carrying extra context.
package errs

// KeyNotFound - No record exists for the requested key.
type KeyNotFound struct {
	msg string
}

func (e KeyNotFound) Error() string {
	if e.msg == "" {
		return "key not found"
	}
	return e.msg
}

// WrongKind - The key exists but holds the other value kind (string vs
// list). Chosen over silently coercing between the two kinds.
type WrongKind struct {
	msg string
}

func (e WrongKind) Error() string {
	if e.msg == "" {
		return "key exists but holds a value of a different kind"
	}
	return e.msg
}

// Corrupted - A short read of a supposedly live record, or a pointer
// resolving outside [8+index_size, eof). Fatal; the caller must treat the
// store as unusable.
type Corrupted struct {
	msg string
}

func (e Corrupted) Error() string {
	if e.msg == "" {
		return "file corrupted"
	}
	return e.msg
}

// KeyTooLong - The key exceeds conf.MaxKeyLen bytes.
type KeyTooLong struct {
	msg string
}

func (e KeyTooLong) Error() string {
	if e.msg == "" {
		return "key too long"
	}
	return e.msg
}

// InvalidAddressSpaceSize - index_size is not a positive multiple of 4.
type InvalidAddressSpaceSize struct {
	msg string
}

func (e InvalidAddressSpaceSize) Error() string {
	if e.msg == "" {
		return "invalid address space size"
	}
	return e.msg
}

// MissingPath - No file path was supplied to Open.
type MissingPath struct {
	msg string
}

func (e MissingPath) Error() string {
	if e.msg == "" {
		return "missing file path"
	}
	return e.msg
}
