package aggregation

import (
	"strings"
	"unicode"

	"ticketpulse/internal/models/dto"
)

// UnknownAgent groups tickets that carry no usable identity at all
const UnknownAgent = "unknown"

// Key resolves the grouping key of an agent: email, then opaque id, then a
// slug of the first name. Every component that groups agents uses it.
func Key(ref *dto.AgentRef) string {
	if ref == nil {
		return UnknownAgent
	}
	if email := strings.ToLower(strings.TrimSpace(ref.Email)); email != "" {
		return email
	}
	if id := strings.TrimSpace(ref.Identifier()); id != "" {
		return "id:" + id
	}
	if s := slug(ref.FirstName); s != "" {
		return "name:" + s
	}
	return UnknownAgent
}

// handler picks who gets credit for a ticket. Done tickets surface the agent
// as the latest commenter; archived ones through processingUser.
func handler(t dto.RawTicket, cat Category) *dto.AgentRef {
	if cat == Done && t.LatestComment != nil && t.LatestComment.User != nil &&
		strings.TrimSpace(t.LatestComment.User.Email) != "" {
		return t.LatestComment.User
	}
	return t.ProcessingUser
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
