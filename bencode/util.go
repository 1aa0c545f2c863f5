package bencode

import (
	"strings"
)

// GetString returns the strict UTF-8 string at path.
func GetString(dict *Dict, path string) (string, bool) {
	s, ok := GetByPath(dict, path).(String)
	if !ok {
		return "", false
	}
	return s.Text()
}

// GetText returns the byte string at path decoded for display.
func GetText(dict *Dict, path string) (string, bool) {
	s, ok := GetByPath(dict, path).(String)
	if !ok {
		return "", false
	}
	return s.DisplayText(), true
}

func GetBytes(dict *Dict, path string) ([]byte, bool) {
	s, ok := GetByPath(dict, path).(String)
	if !ok {
		return nil, false
	}
	return s, true
}

func GetInt(dict *Dict, path string) (int64, bool) {
	i, ok := GetByPath(dict, path).(Int)
	if !ok {
		return 0, false
	}
	return int64(i), true
}

func GetList(dict *Dict, path string) (List, bool) {
	l, ok := GetByPath(dict, path).(List)
	return l, ok
}

func GetDict(dict *Dict, path string) (*Dict, bool) {
	d, ok := GetByPath(dict, path).(*Dict)
	return d, ok
}

// GetByPath walks dot separated keys, e.g. "info.name". It returns nil when
// any segment is missing or a non-final segment is not a dictionary.
func GetByPath(dict *Dict, path string) Value {
	if dict == nil {
		return nil
	}
	parts := strings.Split(path, ".")
	var m Value = dict
	for _, part := range parts {
		d, ok := m.(*Dict)
		if !ok {
			return nil
		}
		m, ok = d.Get(part)
		if !ok {
			return nil
		}
	}
	return m
}

func CheckPath(dict *Dict, path string) bool {
	return GetByPath(dict, path) != nil
}
