// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides quick type-conversion utilities.

It wraps standards like [strconv] to provide fault-tolerant conversions for
query parameters, plus a strict parser for numeric identifiers taken from URLs
and form fields.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning the provided default if parsing fails or string is empty.
func ToIntD(str string, def int) int {

	// If the string is empty, return the default value
	if str == "" {
		return def
	}

	// Try to parse the string as an integer
	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	// If parsing fails, return the default value
	return def
}

// ToID parses a canonical positive 64-bit identifier.
//
// Leading "+" signs, zero padding, whitespace and non-positive values are
// rejected so that every accepted id has exactly one textual form.
func ToID(s string) (int64, bool) {
	if s == "" || strings.TrimSpace(s) != s || s[0] == '+' || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}

	return v, true
}
