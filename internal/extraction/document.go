package extraction

import (
	"errors"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("body is not valid JSON")

// Document is a parsed vendor response.
type Document struct {
	root gjson.Result
}

// ParseDocument validates raw as JSON.
func ParseDocument(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, FormatError{Err: errInvalidJSON}
	}
	return Document{root: gjson.ParseBytes(raw)}, nil
}

// Raw returns the original JSON text.
func (d Document) Raw() string {
	return d.root.Raw
}

// object descends into key and requires an object there.
func object(parent gjson.Result, parentPath, key string) (gjson.Result, string, error) {
	path := join(parentPath, key)
	if !parent.IsObject() {
		return gjson.Result{}, path, ValidationError{Key: path, Reason: "missing key"}
	}
	child := parent.Get(key)
	if !child.Exists() || child.Type == gjson.Null {
		return gjson.Result{}, path, ValidationError{Key: path, Reason: "missing key"}
	}
	if !child.IsObject() {
		return gjson.Result{}, path, ValidationError{Key: path, Reason: "expected an object"}
	}
	return child, path, nil
}

// optional returns the value at key, or false when it is absent or null.
func optional(parent gjson.Result, key string) (gjson.Result, bool) {
	if !parent.IsObject() {
		return gjson.Result{}, false
	}
	child := parent.Get(key)
	if !child.Exists() || child.Type == gjson.Null {
		return gjson.Result{}, false
	}
	return child, true
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
