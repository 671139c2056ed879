// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campusconnect/pkg/slug"
)

/*
TestFrom verifies accent folding and separator collapsing.
*/
func TestFrom(t *testing.T) {
	assert.Equal(t, "resume-photo", slug.From("Résumé  Photo"))
	assert.Equal(t, "campus-day-2026", slug.From("__Campus Day (2026)!__"))
	assert.Equal(t, "", slug.From("!!!"))
}
