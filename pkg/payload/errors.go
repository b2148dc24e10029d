package payload

import "fmt"

// SerializationError is returned when custom data or a whole payload
// cannot be rendered to JSON. Key is empty when the failure happened while
// rendering the payload itself.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("serializing payload: %s", e.Err)
	}
	return fmt.Sprintf("serializing custom data %q: %s", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Cause satisfies github.com/pkg/errors.Cause.
func (e *SerializationError) Cause() error { return e.Err }
