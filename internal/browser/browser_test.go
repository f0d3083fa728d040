// File: internal/browser/browser_test.go
package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "id=custom-setting", ID("custom-setting").String())
	assert.Equal(t, "name=username", Name("username").String())
	assert.Equal(t, "partial_link_text=Content Filtering", PartialLinkText("Content Filtering").String())
}

func TestRelativeXPath(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want string
	}{
		{"id", ID("save-categories"), ".//*[@id='save-categories']"},
		{"name", Name("password"), ".//*[@name='password']"},
		{"tag", Tag("label"), ".//label"},
		{"class", Class("category"), ".//*[contains(concat(' ', normalize-space(@class), ' '), ' category ')]"},
		{"absolute xpath is rescoped", XPath("//label[@for='x']"), ".//label[@for='x']"},
		{"relative xpath passes through", XPath(".//input"), ".//input"},
		{"partial link text", PartialLinkText("Content Filtering"), ".//a[contains(., 'Content Filtering')]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.loc.RelativeXPath()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeXPathRejectsCSS(t *testing.T) {
	_, err := CSS("label[for^='dt_category[']").RelativeXPath()
	require.Error(t, err)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Games'", XPathLiteral("Games"))
	assert.Equal(t, `"Alcohol & Tobacco's"`, XPathLiteral("Alcohol & Tobacco's"))
	// Both quote styles present forces concat().
	assert.Equal(t, `concat('say ', "'", '"hi"')`, XPathLiteral(`say '"hi"`))
}
