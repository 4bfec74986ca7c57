package image

import (
	"errors"
	"fmt"
)

// Kind names the pipeline step an Error came from
type Kind uint8

// kinds of Error
const (
	KindUnknown Kind = iota
	DirectoryRead
	Decode
	DirectoryCreate
	Encode
	Write
)

var (
	ErrDirectoryRead   = errors.New("directory read failed")
	ErrDecode          = errors.New("decode failed")
	ErrDirectoryCreate = errors.New("directory create failed")
	ErrEncode          = errors.New("encode failed")
	ErrWrite           = errors.New("write failed")
)

var kindNames = map[Kind]string{
	KindUnknown:     "Unknown",
	DirectoryRead:   "DirectoryRead",
	Decode:          "Decode",
	DirectoryCreate: "DirectoryCreate",
	Encode:          "Encode",
	Write:           "Write",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText ...
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText ...
func (k *Kind) UnmarshalText(b []byte) error {
	for v, name := range kindNames {
		if name == string(b) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

func (k Kind) sentinel() error {
	switch k {
	case DirectoryRead:
		return ErrDirectoryRead
	case Decode:
		return ErrDecode
	case DirectoryCreate:
		return ErrDirectoryCreate
	case Encode:
		return ErrEncode
	case Write:
		return ErrWrite
	}
	return nil
}

// Error is a failure of one step for one path
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// NewError ...
func NewError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Error ...
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap ...
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e.Kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
