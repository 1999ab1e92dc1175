package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string or number. The helpdesk API returns
// bugId as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// AgentRef is a helpdesk user as embedded in tickets and statistics rows
type AgentRef struct {
	ID              string  `json:"id"`
	ObjectID        string  `json:"_id,omitempty"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	ProfileImageURL string  `json:"profileImageUrl"`
	LastSeen        *string `json:"lastSeen"`
}

// Identifier returns whichever opaque id the payload carried
func (a *AgentRef) Identifier() string {
	if a == nil {
		return ""
	}
	if a.ID != "" {
		return a.ID
	}
	return a.ObjectID
}

// DisplayName is "first last", trimmed
func (a *AgentRef) DisplayName() string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Session is the end-user context attached to a ticket
type Session struct {
	Plan  string `json:"plan"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LatestComment is the most recent message on a ticket
type LatestComment struct {
	CreatedAt string    `json:"createdAt"`
	Session   *Session  `json:"session"`
	User      *AgentRef `json:"user"`
}

// RawTicket is a ticket record exactly as the helpdesk API lists it
type RawTicket struct {
	ID             string         `json:"id"`
	BugID          FlexString     `json:"bugId"`
	Archived       bool           `json:"archived"`
	ArchivedAt     *string        `json:"archivedAt"`
	Status         string         `json:"status"`
	Type           string         `json:"type"`
	Priority       string         `json:"priority"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
	SlaBreached    bool           `json:"slaBreached"`
	HasAgentReply  bool           `json:"hasAgentReply"`
	Plan           string         `json:"plan,omitempty"`
	ProcessingUser *AgentRef      `json:"processingUser"`
	LatestComment  *LatestComment `json:"latestComment"`
	Session        *Session       `json:"session"`
	Tags           []string       `json:"tags"`
}

// TicketsResponse is the body of GET /tickets
type TicketsResponse struct {
	Tickets []RawTicket `json:"tickets"`
	Count   int         `json:"count,omitempty"`
}

// Metric is one {value, rawValue, valueUnit} cell of a statistics row
type Metric struct {
	Value     any      `json:"value"`
	RawValue  *float64 `json:"rawValue"`
	ValueUnit string   `json:"valueUnit"`
}

// Number returns Value as a float. Non-numeric values read as zero.
func (m *Metric) Number() float64 {
	if m == nil {
		return 0
	}
	switch v := m.Value.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Text returns Value as display text, empty when absent
func (m *Metric) Text() string {
	if m == nil || m.Value == nil {
		return ""
	}
	switch v := m.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Raw returns RawValue when present
func (m *Metric) Raw() *float64 {
	if m == nil {
		return nil
	}
	return m.RawValue
}

// StatsItem is one agent row of the TEAM_PERFORMANCE_LIST chart
type StatsItem struct {
	ProcessingUser                 *AgentRef `json:"processingUser"`
	TotalCountForUser              *Metric   `json:"totalCountForUser"`
	RawClosed                      *Metric   `json:"rawClosed"`
	MedianReplyTime                *Metric   `json:"medianReplyTime"`
	MedianTimeToFirstReplyInSec    *Metric   `json:"medianTimeToFirstReplyInSec"`
	MedianFirstAssignmentReplyTime *Metric   `json:"medianFirstAssignmentReplyTime"`
	TimeToLastCloseInSec           *Metric   `json:"timeToLastCloseInSec"`
	AverageRating                  *Metric   `json:"averageRating"`
	TicketActivityCount            *Metric   `json:"ticketActivityCount"`
	HoursActive                    *Metric   `json:"hoursActive"`
}

// StatsListResponse is the body of GET /statistics/lists
type StatsListResponse struct {
	Data []StatsItem `json:"data"`
}

// StatsFact is the body of GET /statistics/facts
type StatsFact struct {
	Value     *float64 `json:"value"`
	ValueUnit string   `json:"valueUnit"`
	Title     string   `json:"title,omitempty"`
}
