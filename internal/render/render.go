// Package render turns a pipeline outcome into the popup's visible state.
// It is the only place user-visible output is decided.
package render

import (
	"encoding/base64"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"qrclip/internal/pipeline"
)

// urlPattern matches scheme-optional host.tld text with an optional path or query.
var urlPattern = regexp.MustCompile(`^(https?://)?[\w-]+(\.\w[\w-]+)+([\w.,@?^=%&:/~+#-]*[\w@?^=%&/~+#-])?$`)

// State is what the popup shows after one run.
type State struct {
	RunID        string `json:"runId,omitempty"`
	Result       string `json:"result"`
	ResultHTML   string `json:"resultHtml"`
	IsLink       bool   `json:"isLink"`
	LinkTarget   string `json:"linkTarget,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorVisible bool   `json:"errorVisible"`
	ErrorKind    string `json:"errorKind,omitempty"`
	Preview      string `json:"preview,omitempty"`
	CopyVisible  bool   `json:"copyVisible"`
	CopyText     string `json:"-"`
}

var resultPolicy = newResultPolicy()

func newResultPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("span")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^url-link$`)).OnElements("span")
	return p
}

// IsURL reports whether text should be rendered as a link.
func IsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// LinkTarget returns the address a link opens: text as-is when it already
// starts with "http", otherwise with an https:// prefix.
func LinkTarget(text string) string {
	if strings.HasPrefix(text, "http") {
		return text
	}
	return "https://" + text
}

// Initial is the state before any run completed.
func Initial(m Messages) State {
	return State{
		Result:     m.Waiting,
		ResultHTML: sanitize(html.EscapeString(m.Waiting)),
	}
}

// Render maps an outcome to visible state.
func Render(out pipeline.Outcome, m Messages) State {
	switch out.Kind {
	case pipeline.OutcomeText:
		if out.Source == pipeline.SourceQRImage {
			return decodedState(out)
		}
		return State{
			Result:     out.Text,
			ResultHTML: sanitize(html.EscapeString(out.Text)),
			Preview:    dataURL(out.Preview),
		}
	default:
		kind := pipeline.ErrorKindReadFailure
		if out.Failure != nil {
			kind = out.Failure.Kind
		}
		return Failure(m, kind, out.Preview)
	}
}

// Failure is the error terminal state: waiting placeholder plus a visible message.
func Failure(m Messages, kind pipeline.ErrorKind, preview []byte) State {
	s := Initial(m)
	s.Error = m.ForKind(kind)
	s.ErrorVisible = true
	s.ErrorKind = string(kind)
	if kind == pipeline.ErrorKindDecodeFailure {
		s.Preview = dataURL(preview)
	}
	return s
}

func decodedState(out pipeline.Outcome) State {
	s := State{
		Result:      out.Text,
		Preview:     dataURL(out.Preview),
		CopyVisible: true,
		CopyText:    out.Text,
	}
	if IsURL(out.Text) {
		s.IsLink = true
		s.LinkTarget = LinkTarget(out.Text)
		s.ResultHTML = sanitize(`<span class="url-link">` + html.EscapeString(out.Text) + `</span>`)
	} else {
		s.ResultHTML = sanitize(html.EscapeString(out.Text))
	}
	return s
}

func sanitize(fragment string) string {
	return resultPolicy.Sanitize(fragment)
}

func dataURL(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
