package gleap

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

const ticketsPath = "/tickets"

// DefaultOpenLimit is the page size of the open ticket listing
const DefaultOpenLimit = 300

// PageLimitFor picks the page size requested for a window: the wider the
// window, the larger the page.
//
// TODO: follow the upstream cursor instead. A window holding more tickets
// than the page size is silently undercounted.
func PageLimitFor(w timewindow.Window) int {
	return limitForSpan(w.Duration())
}

// PageLimitAt sizes the page from how far back the window reaches from now.
// The listings are newest first and not scoped by time upstream, so an old
// narrow window needs the page of a wide one.
func PageLimitAt(w timewindow.Window, now time.Time) int {
	span := now.Sub(w.Start)
	if d := w.Duration(); span < d {
		span = d
	}
	return limitForSpan(span)
}

func limitForSpan(d time.Duration) int {
	switch {
	case d <= 2*time.Hour:
		return 200
	case d <= 24*time.Hour:
		return 1000
	default:
		return 2000
	}
}

func ticketQuery(limit int) url.Values {
	q := url.Values{}
	q.Set("skip", "0")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("filter", "{}")
	return q
}

// FetchArchived lists archived inquiries and keeps those archived inside w.
// The upstream does not scope the listing by time.
func (c *Client) FetchArchived(ctx context.Context, w timewindow.Window, limit int) ([]dto.RawTicket, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = PageLimitAt(w, c.now())
	}

	q := ticketQuery(limit)
	q.Set("sort", "-archivedAt")
	q.Set("ignoreArchived", "true")
	q.Set("isSpam", "false")
	q.Set("type[]", "INQUIRY")
	q.Set("archived", "true")

	var resp dto.TicketsResponse
	if err := c.getJSON(ctx, ticketsPath, q, &resp); err != nil {
		return nil, err
	}
	return inWindow(resp.Tickets, w, func(t dto.RawTicket) string {
		if t.ArchivedAt == nil {
			return ""
		}
		return *t.ArchivedAt
	}), nil
}

// FetchDone lists closed inquiries and keeps those last updated inside w
func (c *Client) FetchDone(ctx context.Context, w timewindow.Window, limit int) ([]dto.RawTicket, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = PageLimitAt(w, c.now())
	}

	q := ticketQuery(limit)
	q.Set("type", "INQUIRY")
	q.Set("status", "DONE")
	q.Set("sort", "-lastNotification")

	var resp dto.TicketsResponse
	if err := c.getJSON(ctx, ticketsPath, q, &resp); err != nil {
		return nil, err
	}
	return inWindow(resp.Tickets, w, func(t dto.RawTicket) string { return t.UpdatedAt }), nil
}

// FetchOpen lists the currently open inquiries, most recently active first
func (c *Client) FetchOpen(ctx context.Context, limit int) ([]dto.RawTicket, error) {
	if limit <= 0 {
		limit = DefaultOpenLimit
	}

	q := ticketQuery(limit)
	q.Set("type", "INQUIRY")
	q.Set("status", "OPEN")
	q.Set("sort", "-lastNotification")

	var resp dto.TicketsResponse
	if err := c.getJSON(ctx, ticketsPath, q, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

// inWindow keeps tickets whose stamp parses and falls inside w, bounds
// included. Tickets without the stamp are dropped.
func inWindow(tickets []dto.RawTicket, w timewindow.Window, stamp func(dto.RawTicket) string) []dto.RawTicket {
	out := make([]dto.RawTicket, 0, len(tickets))
	for _, t := range tickets {
		ts, ok := timewindow.ParseTimestamp(stamp(t))
		if !ok || !w.Contains(ts) {
			continue
		}
		out = append(out, t)
	}
	return out
}
