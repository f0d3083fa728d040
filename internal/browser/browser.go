// File: internal/browser/browser.go
package browser

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies a locator strategy for finding elements on a page.
type Kind int

const (
	ByID Kind = iota
	ByName
	ByCSS
	ByXPath
	ByClass
	ByTag
	// ByPartialLinkText matches anchor elements whose visible text contains
	// the locator value.
	ByPartialLinkText
)

// String returns the short name of the locator kind, used in logs.
func (k Kind) String() string {
	switch k {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByCSS:
		return "css"
	case ByXPath:
		return "xpath"
	case ByClass:
		return "class"
	case ByTag:
		return "tag"
	case ByPartialLinkText:
		return "partial_link_text"
	default:
		return "unknown"
	}
}

// Locator is a single strategy for finding elements: a kind plus its value.
type Locator struct {
	Kind  Kind
	Value string
}

// String renders the locator as "kind=value" for logs and error messages.
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Kind, l.Value)
}

// ID, Name, CSS, XPath, Class, Tag, PartialLinkText are locator constructors.
func ID(v string) Locator              { return Locator{Kind: ByID, Value: v} }
func Name(v string) Locator            { return Locator{Kind: ByName, Value: v} }
func CSS(v string) Locator             { return Locator{Kind: ByCSS, Value: v} }
func XPath(v string) Locator           { return Locator{Kind: ByXPath, Value: v} }
func Class(v string) Locator           { return Locator{Kind: ByClass, Value: v} }
func Tag(v string) Locator             { return Locator{Kind: ByTag, Value: v} }
func PartialLinkText(v string) Locator { return Locator{Kind: ByPartialLinkText, Value: v} }

// RelativeXPath translates the locator into an XPath expression scoped to the
// current node (".//..."). CSS locators have no general XPath translation and
// are rejected; subtree lookups must use one of the other kinds.
func (l Locator) RelativeXPath() (string, error) {
	switch l.Kind {
	case ByID:
		return fmt.Sprintf(".//*[@id=%s]", XPathLiteral(l.Value)), nil
	case ByName:
		return fmt.Sprintf(".//*[@name=%s]", XPathLiteral(l.Value)), nil
	case ByXPath:
		if strings.HasPrefix(l.Value, "//") {
			return "." + l.Value, nil
		}
		return l.Value, nil
	case ByClass:
		return fmt.Sprintf(".//*[contains(concat(' ', normalize-space(@class), ' '), %s)]",
			XPathLiteral(" "+l.Value+" ")), nil
	case ByTag:
		return ".//" + l.Value, nil
	case ByPartialLinkText:
		return fmt.Sprintf(".//a[contains(., %s)]", XPathLiteral(l.Value)), nil
	default:
		return "", fmt.Errorf("locator kind %s cannot be scoped to a subtree", l.Kind)
	}
}

// XPathLiteral quotes a string for safe embedding in an XPath expression.
// Category names come straight from vendor-controlled markup, so values
// containing either quote character must be handled; both at once are split
// via concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// Element is a handle to a DOM node located on the current page. Handles can
// go stale after navigation; callers re-resolve rather than holding on to
// them across page loads.
type Element interface {
	// Click dispatches a click on the element.
	Click(ctx context.Context) error
	// Type sends the given text as keystrokes into the element.
	Type(ctx context.Context, text string) error
	// Text returns the trimmed visible text content.
	Text(ctx context.Context) (string, error)
	// Attr returns the value of the named attribute and whether it is present.
	Attr(ctx context.Context, name string) (string, bool, error)
	// Selected reports whether a checkbox or radio control is currently checked.
	Selected(ctx context.Context) (bool, error)
	// TagName returns the lowercased element tag.
	TagName() string
	// Query finds all matching descendants of this element. CSS locators are
	// not supported for subtree queries.
	Query(ctx context.Context, loc Locator) ([]Element, error)
}

// Page is the engine surface the orchestration core depends on. Query never
// waits: it returns whatever currently matches, possibly nothing. Waiting is
// layered on top by the locate package.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Query(ctx context.Context, loc Locator) ([]Element, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Source(ctx context.Context) (string, error)
}
