package entities

import "time"

// TicketSnapshot is the stored state of an open ticket, keyed by the
// upstream ticket id. Rows are overwritten on every refresh.
type TicketSnapshot struct {
	ID                     string    `json:"id" gorm:"column:id;type:nvarchar(64);primaryKey"`
	TicketID               string    `json:"ticket_id" gorm:"column:ticket_id;type:nvarchar(64)"`
	AgentName              string    `json:"agent_name" gorm:"column:agent_name;type:nvarchar(200)"`
	AgentEmail             string    `json:"agent_email" gorm:"column:agent_email;type:nvarchar(255)"`
	AgentOpenTicket        int       `json:"agent_open_ticket" gorm:"column:agent_open_ticket;type:int;not null;default:0;index"`
	TicketStatus           string    `json:"ticket_status" gorm:"column:ticket_status;type:nvarchar(50)"`
	TicketType             string    `json:"ticket_type" gorm:"column:ticket_type;type:nvarchar(50)"`
	Priority               string    `json:"priority" gorm:"column:priority;type:nvarchar(50)"`
	SlaBreached            bool      `json:"sla_breached" gorm:"column:sla_breached;type:bit;not null;default:0"`
	HasAgentReply          bool      `json:"has_agent_reply" gorm:"column:has_agent_reply;type:bit;not null;default:0"`
	TimeOpenDuration       string    `json:"time_open_duration" gorm:"column:time_open_duration;type:nvarchar(100)"`
	Tags                   string    `json:"tags" gorm:"column:tags;type:nvarchar(max)"`
	TicketUpdatedAt        string    `json:"updated_at" gorm:"column:updated_at;type:nvarchar(40)"`
	LatestCommentCreatedAt string    `json:"latest_comment_created_at" gorm:"column:latest_comment_created_at;type:nvarchar(40)"`
	PlanType               string    `json:"plan_type" gorm:"column:plan_type;type:nvarchar(100)"`
	UserName               string    `json:"user_name" gorm:"column:user_name;type:nvarchar(200)"`
	UserEmail              string    `json:"user_email" gorm:"column:user_email;type:nvarchar(255)"`
	RefreshedAt            time.Time `json:"refreshed_at" gorm:"column:refreshed_at;type:datetime2;not null"`
}

// TableName pins the table to the dbo schema
func (TicketSnapshot) TableName() string {
	return "dbo.open_tickets"
}
