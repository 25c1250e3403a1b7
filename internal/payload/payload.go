// Package payload turns an arbitrary text buffer into a bounded
// security-review message.
//
// Content up to SoftLimit bytes is embedded verbatim after the preamble.
// Content between SoftLimit and HardLimit is cut to SoftLimit bytes and
// marked as truncated. Anything larger is rejected with a *TooLargeError.
// The truncation notice is always the final line of a truncated payload.
// Content is never rewritten, so text that already contains the notice
// keeps it; only the trailing notice marks truncation.
// Build is pure: the same input always yields byte-identical output.
package payload

import (
	"fmt"
	"strings"
)

// Preamble is the fixed system prompt every payload starts with.
const Preamble = "You are a security reviewer. Identify vulnerabilities, insecure patterns, secrets, and remediation steps. Keep responses concise and actionable."

const (
	// SoftLimit is the size above which content is truncated.
	SoftLimit = 200 * 1024
	// HardLimit is the size above which content is rejected.
	HardLimit = 1 * 1024 * 1024
)

const separator = "\n\n"

// Payload is the message inserted into a conversation thread.
type Payload struct {
	Text          string
	Truncated     bool
	OriginalBytes int
}

// Content returns the content region of the payload, without the preamble
// and without the truncation notice.
func (p Payload) Content() string {
	content := strings.TrimPrefix(p.Text, Preamble+separator)
	if p.Truncated {
		content = strings.TrimSuffix(content, separator+TruncationNotice())
	}
	return content
}

// TooLargeError is returned when content exceeds HardLimit.
type TooLargeError struct {
	Bytes int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("content is %d bytes, limit is %d bytes", e.Bytes, HardLimit)
}

// TruncationNotice is the marker appended to truncated payloads. Use
// strings.HasSuffix to detect it; the same text may appear in the content.
func TruncationNotice() string {
	return fmt.Sprintf("[Content truncated to %d bytes]", SoftLimit)
}

// Build wraps content in the review preamble, truncating or rejecting it
// according to SoftLimit and HardLimit.
func Build(content string) (Payload, error) {
	n := len(content)
	if n > HardLimit {
		return Payload{}, &TooLargeError{Bytes: n}
	}

	if n > SoftLimit {
		// The cut may split a multi-byte rune; replace the dangling bytes.
		head := strings.ToValidUTF8(content[:SoftLimit], "\uFFFD")
		return Payload{
			Text:          Preamble + separator + head + separator + TruncationNotice(),
			Truncated:     true,
			OriginalBytes: n,
		}, nil
	}

	return Payload{
		Text:          Preamble + separator + content,
		Truncated:     false,
		OriginalBytes: n,
	}, nil
}
