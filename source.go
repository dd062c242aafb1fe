package mongokit

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	"github.com/ajessup/mongokit/i18n"
)

// JSONBytes decodes a JSON document into the nested map/list/scalar shape the
// engine validates. Numbers decode as json.Number so integer constraints stay
// exact.
func JSONBytes(data []byte) (map[string]any, error) {
	return JSONReader(bytes.NewReader(data))
}

// JSONReader decodes a JSON document from r. The top-level value must be an
// object.
func JSONReader(r io.Reader) (map[string]any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, AppendIssues(nil, Issue{
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, nil),
			Hint:    "malformed JSON: " + err.Error(),
			Cause:   err,
		})
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, AppendIssues(nil, Issue{
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, nil),
			Hint:    "expected a JSON object at the top level",
		})
	}
	return doc, nil
}
