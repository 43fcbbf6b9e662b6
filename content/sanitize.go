package content

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gerardmtb/avo"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

// Sanitized is untrusted HTML, such as user comments. It is written through
// a user-generated-content policy that keeps formatting and links and drops
// scripts, styles and event handlers.
type Sanitized string

// WriteHTML implements avo.Html.
func (s Sanitized) WriteHTML(b *avo.Buffer) {
	b.WriteString(sanitizer().Sanitize(string(s)))
}

// SafeMarkdown renders Markdown and sanitizes the result, for Markdown
// written by untrusted users.
type SafeMarkdown string

// WriteHTML implements avo.Html.
func (m SafeMarkdown) WriteHTML(b *avo.Buffer) {
	Sanitized(avo.Render(Markdown(m))).WriteHTML(b)
}
