package cmd

import "strconv"

// StringParam reads a string tool argument.
func StringParam(params map[string]interface{}, key, def string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return def
}

// IntParam reads an integer tool argument. JSON numbers arrive as float64.
func IntParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return def
}

// BoolParam reads a boolean tool argument.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return def
}
