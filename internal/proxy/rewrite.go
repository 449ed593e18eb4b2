package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OverlayConfig is what the injected script needs to boot inside the page.
type OverlayConfig struct {
	TargetURL  string `json:"-"`
	ProjectID  string `json:"projectId"`
	ServerURL  string `json:"serverUrl"`
	EnableDrag bool   `json:"enableDrag"`
}

// InjectOverlay rewrites a proxied HTML document:
//   - prepends <base href=target> to <head> unless the page already carries a
//     <base>, so relative resource URLs resolve against the origin site
//   - strips integrity attributes from every <script>, since subresource
//     integrity checks can block the page's own scripts once the DOM is mutated
//   - appends the overlay config object and the embed <script> to <body>
func InjectOverlay(body []byte, cfg OverlayConfig) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var head, bodyNode *html.Node
	hasBase := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Head:
				if head == nil {
					head = n
				}
			case atom.Body:
				if bodyNode == nil {
					bodyNode = n
				}
			case atom.Base:
				hasBase = true
			case atom.Script:
				stripAttr(n, "integrity")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if head != nil && !hasBase {
		base := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Base,
			Data:     "base",
			Attr:     []html.Attribute{{Key: "href", Val: cfg.TargetURL}},
		}
		head.InsertBefore(base, head.FirstChild)
	}

	if bodyNode != nil {
		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		configScript := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Script,
			Data:     "script",
		}
		configScript.AppendChild(&html.Node{
			Type: html.TextNode,
			Data: "window.PASTEL_CONFIG = " + string(cfgJSON) + ";",
		})
		bodyNode.AppendChild(configScript)

		embedScript := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Script,
			Data:     "script",
			Attr:     []html.Attribute{{Key: "src", Val: cfg.ServerURL + "/embed.js"}},
		}
		bodyNode.AppendChild(embedScript)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

func stripAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}
