package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	name  string
	email string
}

func nameOf(r record) string  { return r.name }
func emailOf(r record) string { return r.email }

func TestFilterMatchesAnyField(t *testing.T) {
	items := []record{
		{name: "Maria Silva", email: "maria@example.com"},
		{name: "John Carter", email: "jc@example.org"},
		{name: "Wei Chen", email: "wei.chen@example.com"},
	}

	got := Filter(items, "example.com", nameOf, emailOf)
	assert.Len(t, got, 2)

	got = Filter(items, "CARTER", nameOf, emailOf)
	assert.Equal(t, []record{{name: "John Carter", email: "jc@example.org"}}, got)

	got = Filter(items, "nobody", nameOf, emailOf)
	assert.Empty(t, got)
}

func TestFilterEmptyTermReturnsInput(t *testing.T) {
	items := []record{{name: "Maria Silva"}, {name: "Wei Chen"}}

	assert.Equal(t, items, Filter(items, "", nameOf))
	assert.Equal(t, items, Filter(items, "   ", nameOf))
}

func TestFilterPreservesOrder(t *testing.T) {
	items := []record{{name: "b"}, {name: "ab"}, {name: "ba"}}

	got := Filter(items, "b", nameOf)
	assert.Equal(t, []record{{name: "b"}, {name: "ab"}, {name: "ba"}}, got)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{4900, "49.00"},
		{4905, "49.05"},
		{0, "0.00"},
		{5, "0.05"},
		{123456, "1234.56"},
		{-2500, "-25.00"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatAmount(tc.minor), "minor %d", tc.minor)
	}
}
