// File: cmd/status_test.go
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderStatusSingleColumn(t *testing.T) {
	catalog := []string{"Gambling", "Games", "Phishing"}
	before := map[string]bool{"Gambling": true, "Games": false}

	out := renderStatus(catalog, before, nil)

	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "State")
	assert.NotContains(t, out, "After")
	assert.Contains(t, out, "Gambling")
	assert.Contains(t, out, "Blocked")
	assert.Contains(t, out, "Allowed")
	assert.Contains(t, out, "Unknown")
}

func TestRenderStatusMarksChangedRows(t *testing.T) {
	catalog := []string{"Gambling", "Games"}
	before := map[string]bool{"Gambling": false, "Games": false}
	after := map[string]bool{"Gambling": true, "Games": false}

	out := renderStatus(catalog, before, after)

	assert.Contains(t, out, "Before")
	assert.Contains(t, out, "After")
	assert.Contains(t, out, "*")
}

func TestBlockedSetKeepsCatalogOrder(t *testing.T) {
	catalog := []string{"Gambling", "Games", "Hacking", "Chat"}
	observed := map[string]bool{"Chat": true, "Gambling": true, "Games": false}

	assert.Equal(t, []string{"Gambling", "Chat"}, blockedSet(catalog, observed))
}

func TestBlockedSetEmptyObserved(t *testing.T) {
	assert.Empty(t, blockedSet([]string{"Gambling"}, nil))
}
