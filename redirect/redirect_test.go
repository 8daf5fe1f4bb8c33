package redirect

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/applesignin/errors"
)

func TestExtractFragment(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"with fragment", "https://example.com/cb#code=abc&state=xyz", "code=abc&state=xyz", true},
		{"no fragment", "https://example.com/cb", "", false},
		{"empty fragment", "https://example.com/cb#", "", true},
		{"first hash wins", "https://example.com/cb#a=1#b=2", "a=1#b=2", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractFragment(tc.url)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ExtractFragment(%q) = (%q, %v), want (%q, %v)", tc.url, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{
			"drops empty value",
			"code=abc123&state=xyz789&id_token=token456&empty_param=",
			Params{"code": "abc123", "state": "xyz789", "id_token": "token456"},
		},
		{
			"drops malformed entries",
			"invalid=&=value&key_only&proper=value",
			Params{"proper": "value"},
		},
		{"empty value", "a=1&b=", Params{"a": "1"}},
		{"empty key", "a=1&=x", Params{"a": "1"}},
		{"last duplicate wins", "a=1&a=2", Params{"a": "2"}},
		{"split on first equals", "id_token=a.b=c", Params{"id_token": "a.b=c"}},
		{"percent-decoded", "error_description=User%20cancelled", Params{"error_description": "User cancelled"}},
		{"plus is space", "error_description=Invalid+client+id", Params{"error_description": "Invalid client id"}},
		{"encoded separators", "user=%7B%22a%22%3A%221%262%3D3%22%7D", Params{"user": `{"a":"1&2=3"}`}},
		{"malformed escape kept", "d=100%", Params{"d": "100%"}},
		{"token untouched", "id_token=eyJh.eyJz-_x.sig_-", Params{"id_token": "eyJh.eyJz-_x.sig_-"}},
		{"empty query", "", Params{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseParams(tc.query)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseParams(%q) = %v, want %v", tc.query, got, tc.want)
			}
			for k, v := range got {
				if k == "" || v == "" {
					t.Errorf("empty key or value survived: %q=%q", k, v)
				}
			}
		})
	}
}

func TestParamsAccessors(t *testing.T) {
	p := ParseParams("code=X")
	if !p.Has("code") || p.Get("code") != "X" {
		t.Errorf("unexpected accessors on %v", p)
	}
	if p.Has("state") || p.Get("state") != "" {
		t.Error("expected state to be absent")
	}
}

func TestSyntheticURL(t *testing.T) {
	fields := url.Values{
		"state":    {"s-1"},
		"code":     {"X"},
		"id_token": {"Y"},
		"user":     {`{"name":"A B"}`},
		"empty":    {""},
	}
	got := SyntheticURL("https://ex.com/cb", fields)
	want := "https://ex.com/cb#code=X&id_token=Y&state=s-1&user=%7B%22name%22%3A%22A+B%22%7D"
	if got != want {
		t.Errorf("SyntheticURL() =\n  %s\nwant\n  %s", got, want)
	}

	fragment, _ := ExtractFragment(got)
	params := ParseParams(fragment)
	if params.Get("code") != "X" || params.Get("id_token") != "Y" || params.Get("state") != "s-1" {
		t.Errorf("synthetic URL did not round-trip: %v", params)
	}
	if params.Has("empty") {
		t.Error("expected empty field to be dropped")
	}
	if params.Get("user") != `{"name":"A B"}` {
		t.Errorf("expected posted value back unchanged, got %q", params.Get("user"))
	}
}

func TestFormEncodingsDecodeAlike(t *testing.T) {
	want := "Invalid client id or web redirect url."
	fragments := map[string]string{
		"fragment":  "error_description=Invalid%20client%20id%20or%20web%20redirect%20url.",
		"form":      EncodeParams(url.Values{"error_description": {want}}),
		"plus sign": "error_description=Invalid+client+id+or+web+redirect+url.",
	}
	for name, fragment := range fragments {
		t.Run(name, func(t *testing.T) {
			if got := ParseParams(fragment).Get("error_description"); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

const postedPage = `<!DOCTYPE html>
<html><body>
<form id="other" action="https://elsewhere.example/submit" method="post">
  <input type="hidden" name="decoy" value="1">
</form>
<form action="https://ex.com/cb" method="post">
  <input type="hidden" name="code" value="X">
  <input type="hidden" name="id_token" value="Y">
  <input type="hidden" name="state" value="s-1">
  <textarea name="user">{"email":"a@b.c"}</textarea>
  <input type="submit">
</form>
</body></html>`

func TestFormFieldsFromHTML(t *testing.T) {
	fields, err := FormFieldsFromHTML(strings.NewReader(postedPage), "https://ex.com/cb")
	if err != nil {
		t.Fatalf("FormFieldsFromHTML: %v", err)
	}
	if fields.Get("code") != "X" || fields.Get("id_token") != "Y" || fields.Get("state") != "s-1" {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields.Get("user") != `{"email":"a@b.c"}` {
		t.Errorf("expected textarea content, got %q", fields.Get("user"))
	}
	if fields.Has("decoy") {
		t.Error("fields from a non-matching form leaked in")
	}
}

func TestFormFieldsFromHTMLAnyForm(t *testing.T) {
	fields, err := FormFieldsFromHTML(strings.NewReader(postedPage), "")
	if err != nil {
		t.Fatalf("FormFieldsFromHTML: %v", err)
	}
	if fields.Get("decoy") != "1" {
		t.Errorf("expected first form, got %v", fields)
	}
}

func TestFormFieldsFromHTMLNoForm(t *testing.T) {
	_, err := FormFieldsFromHTML(strings.NewReader("<html><body><p>hi</p></body></html>"), "https://ex.com/cb")
	if !errors.IsCode(err, errors.ErrCodeMalformedRedirect) {
		t.Errorf("expected MALFORMED_REDIRECT, got %v", err)
	}
}

func TestFormCaptureScript(t *testing.T) {
	script := FormCaptureScript(`https://ex.com/cb?x="1"`)
	if !strings.Contains(script, `var a="https://ex.com/cb?x=\"1\""`) {
		t.Errorf("expected redirect URI as a quoted literal, got %s", script)
	}
	if !strings.HasPrefix(script, "(function(){") || !strings.HasSuffix(script, "})()") {
		t.Errorf("expected self-invoking function, got %s", script)
	}
}
