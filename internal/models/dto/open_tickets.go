package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// OpenTicketRow is one open ticket as listed by the dashboard and as stored
// in the snapshot table
type OpenTicketRow struct {
	ID                     string `json:"id" binding:"required" example:"6650f0c2a1"`
	TicketID               string `json:"ticket_id" example:"1042"`
	AgentName              string `json:"agent_name" example:"Priya Sharma"`
	AgentEmail             string `json:"agent_email,omitempty" example:"priya@example.com"`
	AgentOpenTicket        int    `json:"agent_open_ticket" example:"7"`
	TicketStatus           string `json:"ticket_status" example:"OPEN"`
	TicketType             string `json:"ticket_type" example:"INQUIRY"`
	Priority               string `json:"priority" example:"MEDIUM"`
	SlaBreached            bool   `json:"sla_breached"`
	HasAgentReply          bool   `json:"has_agent_reply"`
	TimeOpenDuration       string `json:"time_open_duration" example:"2 days 3 hours"`
	Tags                   string `json:"tags" example:"billing,PRO_PLAN"`
	UpdatedAt              string `json:"updated_at" example:"2025-11-24T14:05:00+05:30"`
	LatestCommentCreatedAt string `json:"latest_comment_created_at" example:"2025-11-24T13:50:00+05:30"`
	PlanType               string `json:"plan_type" example:"PRO_PLAN"`
	UserName               string `json:"user_name" example:"Jane Doe"`
	UserEmail              string `json:"user_email" example:"jane@customer.io"`
}

// OpenTicketsView is the open ticket listing
type OpenTicketsView struct {
	TotalTickets int             `json:"total_tickets"`
	Tickets      []OpenTicketRow `json:"tickets"`
}

// PlanCount is one line of the plan breakdown
type PlanCount struct {
	Plan  string `json:"plan" example:"PRO_PLAN"`
	Count int    `json:"count" example:"12"`
	Emoji string `json:"emoji" example:"🚀"`
}

// PlanGroups counts the open tickets of each plan family
type PlanGroups struct {
	BasePlan   int `json:"base_plan"`
	ProPlan    int `json:"pro_plan"`
	TrialPlan  int `json:"trial_plan"`
	CustomPlan int `json:"custom_plan"`
}

// PlanSummary is the plan breakdown of the open tickets
type PlanSummary struct {
	TotalTickets  int         `json:"total_tickets"`
	TimeIST       string      `json:"time_ist" example:"14:05"`
	Summary       PlanGroups  `json:"summary"`
	CustomDetails []string    `json:"custom_details"`
	Breakdown     []PlanCount `json:"breakdown"`
	Timestamp     time.Time   `json:"timestamp"`
}

// UpsertRequest is the body of the snapshot upsert endpoint. Both
// {"rows":[...]} and a bare array of rows are accepted.
type UpsertRequest struct {
	Rows []OpenTicketRow `json:"rows" binding:"required,dive"`
}

func (r *UpsertRequest) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		rows := []OpenTicketRow{}
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return err
		}
		r.Rows = rows
		return nil
	}
	type plain UpsertRequest
	return json.Unmarshal(data, (*plain)(r))
}

// UpsertResult reports how many rows reached the store
type UpsertResult struct {
	RowsWritten int64 `json:"rows_written"`
}

// RefreshResult reports a snapshot refresh
type RefreshResult struct {
	Fetched     int   `json:"fetched"`
	RowsWritten int64 `json:"rows_written"`
	Indexed     int   `json:"indexed"`
}

// SnapshotSearchParams are the query parameters of the snapshot search
type SnapshotSearchParams struct {
	Query    string `form:"q"`
	Agent    string `form:"agent"`
	Plan     string `form:"plan"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ESResponse is the subset of a search response that is decoded
type ESResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
