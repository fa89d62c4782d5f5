package session

import (
	"errors"
	"fmt"
	"os"

	"tstbuild/internal/testfile"
)

var (
	// ErrNoSelection is returned by operations that need a current entry.
	ErrNoSelection = errors.New("no test selected")
	// ErrIndexOutOfRange is returned by Select for an index outside the list.
	ErrIndexOutOfRange = errors.New("test index out of range")
	// ErrValidation is returned when validation errors block a save.
	ErrValidation = errors.New("validation failed")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled by user")
	// ErrInvalidFilename is returned when a new save path breaks the filename rules.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrNoPath is returned by Save before the session has a file path.
	ErrNoPath = errors.New("no file path set")
)

// Severity classifies messages sent to the Presenter.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// FileSystem reads and writes test files for a Session.
type FileSystem interface {
	OpenFile(path string) ([]byte, error)
	SaveFile(path, text string) error
}

// Presenter is the user-facing side of a Session. FieldValue returns what
// the user has typed for a named argument field.
type Presenter interface {
	FieldValue(name string) string
	SetValidationMessage(text string, severity Severity)
	ConfirmProceed(message string) bool
}

// OSFileSystem is the FileSystem backed by the local disk.
type OSFileSystem struct{}

func (OSFileSystem) OpenFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", testfile.ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func (OSFileSystem) SaveFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0644)
}
