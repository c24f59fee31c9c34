package transition

import (
	"bytes"
	"errors"
	"strings"

	"github.com/buger/jsonparser"
)

// errMalformed marks a payload that is neither a JSON object nor a string holding one.
var errMalformed = errors.New("payload is not a JSON object")

// maxUnwrap bounds how many layers of string-serialized JSON are peeled off a payload.
const maxUnwrap = 3

// attempt is one named extraction strategy. It either yields a value or falls through.
type attempt struct {
	name    string
	extract func(obj []byte) (string, bool)
}

// firstOf runs attempts in order and returns the first value found with the strategy name.
func firstOf(obj []byte, attempts []attempt) (value, strategy string, ok bool) {
	for _, a := range attempts {
		if v, ok := a.extract(obj); ok {
			return v, a.name, true
		}
	}
	return "", "", false
}

var (
	fieldAttempts = []attempt{
		scalarAt("columnId"),
		scalarAt("column_id"),
	}
	previousAttempts = []attempt{
		labelAt("previousValue"),
		labelAt("previous_value"),
		labelAt("fromValue"),
		labelAt("from_value"),
	}
	nextAttempts = []attempt{
		labelAt("value"),
		labelAt("toValue"),
		labelAt("to_value"),
	}
	itemIDAttempts = []attempt{
		scalarAt("pulse_id"),
		scalarAt("itemId"),
		scalarAt("item_id"),
		scalarAt("entity", "id"),
	}
	itemNameAttempts = []attempt{
		scalarAt("pulse_name"),
		scalarAt("itemName"),
		scalarAt("item_name"),
		scalarAt("entity", "name"),
	}
)

// payload is the extracted view of one change-log entry.
type payload struct {
	field    string
	previous string
	next     string
	itemID   string
	itemName string
}

// unwrapObject returns the JSON object held by raw, peeling string-serialized layers.
func unwrapObject(raw []byte) ([]byte, error) {
	data := bytes.TrimSpace(raw)
	for range maxUnwrap {
		if len(data) == 0 {
			return nil, errMalformed
		}
		switch data[0] {
		case '{':
			if _, _, _, err := jsonparser.Get(data); err != nil {
				return nil, err
			}
			return data, nil
		case '"':
			if len(data) < 2 || data[len(data)-1] != '"' {
				return nil, errMalformed
			}
			s, err := jsonparser.ParseString(data[1 : len(data)-1])
			if err != nil {
				return nil, err
			}
			data = bytes.TrimSpace([]byte(s))
		default:
			return nil, errMalformed
		}
	}
	return nil, errMalformed
}

// parsePayload decodes a raw payload into its parts. Missing parts are left empty.
func parsePayload(raw []byte) (payload, error) {
	obj, err := unwrapObject(raw)
	if err != nil {
		return payload{}, err
	}
	var p payload
	p.field, _, _ = firstOf(obj, fieldAttempts)
	p.previous, _, _ = firstOf(obj, previousAttempts)
	p.next, _, _ = firstOf(obj, nextAttempts)
	p.itemID, _, _ = firstOf(obj, itemIDAttempts)
	p.itemName, _, _ = firstOf(obj, itemNameAttempts)
	return p, nil
}

// fillFromEntity takes the item from the log entry's own entity when the payload named none.
// Only an object entity carries an item; kind strings such as "pulse" are ignored.
func (p *payload) fillFromEntity(entity []byte) {
	if p.itemID != "" {
		return
	}
	obj := bytes.TrimSpace(entity)
	if len(obj) == 0 || obj[0] != '{' {
		return
	}
	id, ok := scalarAt("id").extract(obj)
	if !ok {
		return
	}
	p.itemID = id
	if p.itemName == "" {
		p.itemName, _ = scalarAt("name").extract(obj)
	}
}

// scalarAt reads a non-empty string or number at the key path.
func scalarAt(keys ...string) attempt {
	return attempt{
		name: strings.Join(keys, "."),
		extract: func(obj []byte) (string, bool) {
			v, typ, _, err := jsonparser.Get(obj, keys...)
			if err != nil {
				return "", false
			}
			var s string
			switch typ {
			case jsonparser.String:
				if s, err = jsonparser.ParseString(v); err != nil {
					return "", false
				}
			case jsonparser.Number:
				s = string(v)
			default:
				return "", false
			}
			s = strings.TrimSpace(s)
			return s, s != ""
		},
	}
}

// labelAt reads a status label stored under key. The value may be an object or a
// string holding serialized JSON; the nested label.text shape wins over a top-level text.
func labelAt(key string) attempt {
	return attempt{
		name: key,
		extract: func(obj []byte) (string, bool) {
			v, typ, _, err := jsonparser.Get(obj, key)
			if err != nil {
				return "", false
			}
			switch typ {
			case jsonparser.Object:
			case jsonparser.String:
				s, err := jsonparser.ParseString(v)
				if err != nil {
					return "", false
				}
				if v, err = unwrapObject([]byte(s)); err != nil {
					return "", false
				}
			default:
				return "", false
			}
			for _, path := range [][]string{{"label", "text"}, {"text"}} {
				text, typ, _, err := jsonparser.Get(v, path...)
				if err != nil || typ != jsonparser.String {
					continue
				}
				s, err := jsonparser.ParseString(text)
				if err != nil {
					continue
				}
				if s = normalizeLabel(s); s != "" {
					return s, true
				}
			}
			return "", false
		},
	}
}

// normalizeLabel collapses inner whitespace runs to one space and trims the ends.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
