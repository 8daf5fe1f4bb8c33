package redirect

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kbukum/applesignin/errors"
)

// FormFieldsFromHTML parses an HTML document and returns the named input
// fields of the first <form> whose action starts with action. Any form
// matches when action is empty. A missing form is a MALFORMED_REDIRECT error.
func FormFieldsFromHTML(r io.Reader, action string) (url.Values, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.MalformedRedirect("Failed to read posted form").WithCause(err)
	}

	form := findForm(doc, action)
	if form == nil {
		return nil, errors.MalformedRedirect(fmt.Sprintf("No form posting to %q", action))
	}

	fields := url.Values{}
	collectInputs(form, fields)
	return fields, nil
}

func findForm(n *html.Node, action string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Form {
		if action == "" || strings.HasPrefix(attr(n, "action"), action) {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findForm(c, action); f != nil {
			return f
		}
	}
	return nil
}

func collectInputs(n *html.Node, fields url.Values) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Input:
			if name := attr(n, "name"); name != "" {
				fields.Add(name, attr(n, "value"))
			}
		case atom.Textarea:
			if name := attr(n, "name"); name != "" {
				fields.Add(name, textContent(n))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectInputs(c, fields)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// FormCaptureScript returns a JavaScript expression that serializes the
// pending form posting to redirectURI into redirectURI#k=v&... and evaluates
// to that string, or to "" when no such form exists on the page.
func FormCaptureScript(redirectURI string) string {
	lit, _ := json.Marshal(redirectURI)
	return fmt.Sprintf(captureScript, lit)
}

const captureScript = `(function(){` +
	`var a=%s,f=null;` +
	`for(var i=0;i<document.forms.length;i++){` +
	`var c=document.forms[i];` +
	`if((c.getAttribute('action')||'').indexOf(a)===0){f=c;break;}}` +
	`if(!f){return '';}` +
	`var p=[];` +
	`for(var j=0;j<f.elements.length;j++){` +
	`var e=f.elements[j];` +
	`if(e.name&&e.value){p.push(encodeURIComponent(e.name)+'='+encodeURIComponent(e.value));}}` +
	`return a+'#'+p.join('&');})()`
