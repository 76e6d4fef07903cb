package fragments

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// node is the wire shape shared by every fragment.
type node struct {
	Type  string              `json:"type"`
	Value jsoniter.RawMessage `json:"value"`
}

// eachField calls fn for every member of the JSON object held in raw, in
// source order. A JSON null is treated as an empty object.
func eachField(raw []byte, fn func(key string, value []byte) error) error {
	iter := jsoniter.ParseBytes(json, raw)
	var cbErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		value := it.SkipAndReturnBytes()
		if it.Error != nil {
			return false
		}
		if err := fn(key, append([]byte(nil), value...)); err != nil {
			cbErr = err
			return false
		}
		return true
	})
	if cbErr != nil {
		return cbErr
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return iter.Error
	}
	return nil
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// rawScalar returns a JSON scalar as text: strings are unquoted, anything
// else is returned verbatim.
func rawScalar(raw []byte) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// rawInt reads numbers that the API sometimes sends as strings ("250") or
// as floats (250.0). Anything unreadable yields 0.
func rawInt(raw []byte) int64 {
	s := strings.TrimSpace(rawScalar(raw))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
