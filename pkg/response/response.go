// Package response wraps decoded ThirdLight JSON responses in a convenience
// view. Lookups check the top-level object first and fall through to the
// nested outParams object, which is where the API puts most values of
// interest. So instead of digging through
//
//	out, _ := resp.GetResponse("outParams")
//	url, _ := out.GetString("panoramicUrl")
//
// callers can write
//
//	url, _ := resp.GetString("panoramicUrl")
package response

import "fmt"

// MissingKeyError reports a key found neither at the top level of a wrapped
// response nor inside its outParams object.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("key %q not found in IMS data", e.Key)
}

// Wrapped is a read-only view over one decoded JSON object. Object values
// resolved through it come back wrapped themselves, so nested documents can
// be traversed without manual type assertions.
type Wrapped struct {
	data map[string]any
}

// Wrap builds a view over a decoded JSON object.
func Wrap(data map[string]any) *Wrapped {
	return &Wrapped{data: data}
}

// Data returns the underlying decoded object.
func (w *Wrapped) Data() map[string]any {
	return w.data
}

// String renders the view exactly like its underlying object.
func (w *Wrapped) String() string {
	if w == nil {
		return "<nil>"
	}
	return fmt.Sprint(w.data)
}

// Get resolves key against the top-level object, then against outParams when
// that is itself an object. JSON-object values come back wrapped; all other
// values are returned unchanged.
func (w *Wrapped) Get(key string) (any, error) {
	val, ok := w.data[key]
	if !ok {
		out, isObj := w.data["outParams"].(map[string]any)
		if !isObj {
			return nil, &MissingKeyError{Key: key}
		}
		if val, ok = out[key]; !ok {
			return nil, &MissingKeyError{Key: key}
		}
	}
	if obj, isObj := val.(map[string]any); isObj {
		return Wrap(obj), nil
	}
	return val, nil
}

// Has reports whether key resolves at either level.
func (w *Wrapped) Has(key string) bool {
	_, err := w.Get(key)
	return err == nil
}

// GetResponse resolves key and requires the value to be a JSON object.
func (w *Wrapped) GetResponse(key string) (*Wrapped, error) {
	val, err := w.Get(key)
	if err != nil {
		return nil, err
	}
	sub, ok := val.(*Wrapped)
	if !ok {
		return nil, fmt.Errorf("key %q: expected object, got %T", key, val)
	}
	return sub, nil
}

// GetString resolves key and requires the value to be a string.
func (w *Wrapped) GetString(key string) (string, error) {
	val, err := w.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("key %q: expected string, got %T", key, val)
	}
	return s, nil
}

// GetInt64 resolves key and requires the value to be a number. JSON numbers
// decode as float64; the value is truncated towards zero.
func (w *Wrapped) GetInt64(key string) (int64, error) {
	val, err := w.Get(key)
	if err != nil {
		return 0, err
	}
	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("key %q: expected number, got %T", key, val)
	}
	return int64(f), nil
}

// GetBool resolves key and requires the value to be a boolean.
func (w *Wrapped) GetBool(key string) (bool, error) {
	val, err := w.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("key %q: expected bool, got %T", key, val)
	}
	return b, nil
}
