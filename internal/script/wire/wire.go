// Package wire encodes and decodes the dynamic, script-shaped payloads
// that cross the script bridge's channels: the ex-command argument
// vector and context, and the fs-open result bytes handed to a script
// callback. These are values of a shape the loop doesn't otherwise need
// to understand, so they travel as JSON text built and read with
// gjson/sjson rather than a fixed Go struct.
package wire

import (
	"encoding/base64"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeArgVector builds a JSON array from a parsed ex-command argument
// vector.
func EncodeArgVector(args []string) string {
	out := "[]"
	for i, a := range args {
		var err error
		out, err = sjson.Set(out, strconv.Itoa(i), a)
		if err != nil {
			return "[]"
		}
	}
	return out
}

// DecodeArgVector reads a JSON array built by EncodeArgVector back into
// a string slice. A malformed or non-array raw yields nil.
func DecodeArgVector(raw string) []string {
	result := gjson.Parse(raw)
	if !result.IsArray() {
		return nil
	}
	var out []string
	result.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// EncodeBytes wraps an arbitrary byte payload (the engine uses it for the
// fs-open result passed to a script callback) in a JSON object carrying a
// base64 string, so it survives as a single line of JSON text.
func EncodeBytes(data []byte) string {
	out, err := sjson.Set("{}", "data", base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return "{}"
	}
	return out
}

// DecodeBytes reverses EncodeBytes. A malformed raw yields nil.
func DecodeBytes(raw string) []byte {
	encoded := gjson.Get(raw, "data").String()
	if encoded == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return data
}

// EncodeExCommandPayload builds the JSON object carried by an
// ex-command-request message: the command name, its parsed argument
// vector, the bang flag, and the current buffer/window ids.
func EncodeExCommandPayload(name string, args []string, bang bool, bufferID, windowID uint64) string {
	out := "{}"
	var err error
	if out, err = sjson.Set(out, "name", name); err != nil {
		return "{}"
	}
	if out, err = sjson.SetRaw(out, "args", EncodeArgVector(args)); err != nil {
		return "{}"
	}
	if out, err = sjson.Set(out, "bang", bang); err != nil {
		return "{}"
	}
	if out, err = sjson.Set(out, "bufferId", bufferID); err != nil {
		return "{}"
	}
	if out, err = sjson.Set(out, "windowId", windowID); err != nil {
		return "{}"
	}
	return out
}

// DecodeExCommandPayload reverses EncodeExCommandPayload.
func DecodeExCommandPayload(raw string) (name string, args []string, bang bool, bufferID, windowID uint64) {
	r := gjson.Parse(raw)
	name = r.Get("name").String()
	args = DecodeArgVector(r.Get("args").Raw)
	bang = r.Get("bang").Bool()
	bufferID = r.Get("bufferId").Uint()
	windowID = r.Get("windowId").Uint()
	return
}
