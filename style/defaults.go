package style

import (
	"golang.org/x/net/html"
)

// UserAgentStyle returns the user-agent declarations for an HTML node.
// Currently this is the display property only; every other property
// starts at its initial value.
func UserAgentStyle(node *html.Node) []KeyValue {
	return []KeyValue{{"display", DisplayPropertyForHTMLNode(node)}}
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "style", "script", "title", "meta", "link", "template":
		return "none"
	case "html", "aside", "body", "div", "h1", "h2", "h3",
		"h4", "h5", "h6", "ol", "ul", "p", "section", "article",
		"header", "footer", "nav", "main", "li":
		return "block"
	case "i", "b", "em", "span", "strong", "a", "code", "img":
		return "inline"
	}
	tracer().Infof("unknown HTML element %s will be set to display: block", node.Data)
	return "block"
}
