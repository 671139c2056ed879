// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campusconnect/pkg/convert"
)

/*
TestToID verifies that only canonical positive integers are accepted.
*/
func TestToID(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"42", 42, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"+3", 0, false},
		{"007", 0, false},
		{" 7", 0, false},
		{"7a", 0, false},
		{"9223372036854775808", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := convert.ToID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestToIntD verifies default fallback on empty or malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 5, convert.ToIntD("5", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("five", 1))
}
