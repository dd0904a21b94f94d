// Package query flattens request parameter objects into URL query
// parameters.
package query

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/sirupsen/logrus"
)

// ToParams converts v into a flat map of query parameters.
//
// v is serialized to JSON first, so its json tags decide the parameter
// names. Null values and values that are empty or whitespace are dropped,
// arrays are joined with commas and every other value keeps its JSON text
// (numbers and booleans) or its decoded string.
//
// ToParams never fails: a value that cannot be serialized is logged and
// produces an empty map.
func ToParams(v any) map[string]string {
	params := map[string]string{}
	if v == nil {
		return params
	}

	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Errorln("failed to serialize query parameters")
		return params
	}
	if bytes.Equal(data, []byte("null")) {
		return params
	}

	err = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		var s string
		switch dataType {
		case jsonparser.Array:
			s = joinArray(value)
		case jsonparser.String:
			str, err := jsonparser.ParseString(value)
			if err != nil {
				return err
			}
			s = str
		case jsonparser.Null, jsonparser.NotExist, jsonparser.Unknown:
			return nil
		default:
			s = string(value)
		}

		if strings.TrimSpace(s) == "" {
			return nil
		}
		params[string(key)] = s
		return nil
	})
	if err != nil {
		logrus.WithError(err).Errorln("failed to flatten query parameters")
		return map[string]string{}
	}

	return params
}

// Values converts a parameter map into url.Values.
func Values(params map[string]string) url.Values {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values
}

func joinArray(value []byte) string {
	var items []string
	_, _ = jsonparser.ArrayEach(value, func(item []byte, dataType jsonparser.ValueType, _ int, _ error) {
		switch dataType {
		case jsonparser.String:
			if s, err := jsonparser.ParseString(item); err == nil {
				items = append(items, s)
				return
			}
		case jsonparser.Null:
			items = append(items, "")
			return
		}
		items = append(items, string(item))
	})
	return strings.Join(items, ",")
}
