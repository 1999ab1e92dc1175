package gleap

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

const (
	statsListPath  = "/statistics/lists"
	statsFactsPath = "/statistics/facts"

	TeamPerformanceChart = "TEAM_PERFORMANCE_LIST"

	MedianReplyTimeChart     = "TICKET_MEDIAN_REPLY_TIME"
	MedianFirstResponseChart = "MEDIAN_FIRST_RESPONSE_TIME"
	MedianTimeToCloseChart   = "MEDIAN_TIME_TO_CLOSE"
)

// FetchTeamPerformance returns the per-agent statistics rows of w
func (c *Client) FetchTeamPerformance(ctx context.Context, w timewindow.Window) ([]dto.StatsItem, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("chartType", TeamPerformanceChart)
	q.Set("startDate", timewindow.FormatUTC(w.Start))
	q.Set("endDate", timewindow.FormatUTC(w.End))
	q.Set("useWorkingHours", "false")
	q.Set("aggsType", "MEDIAN")
	if c.cfg.TeamID != "" {
		q.Set("team", c.cfg.TeamID)
	}

	var resp dto.StatsListResponse
	if err := c.getJSON(ctx, statsListPath, q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchFact returns one median fact of w
func (c *Client) FetchFact(ctx context.Context, chart string, w timewindow.Window) (dto.StatsFact, error) {
	if err := w.Validate(); err != nil {
		return dto.StatsFact{}, err
	}

	q := url.Values{}
	q.Set("chartType", chart)
	q.Set("startDate", timewindow.FormatUTC(w.Start))
	q.Set("endDate", timewindow.FormatUTC(w.End))
	q.Set("aggsType", "MEDIAN")

	var fact dto.StatsFact
	if err := c.getJSON(ctx, statsFactsPath, q, &fact); err != nil {
		return dto.StatsFact{}, err
	}
	return fact, nil
}

// FetchFacts fetches several charts of w in parallel, keyed by chart
func (c *Client) FetchFacts(ctx context.Context, w timewindow.Window, charts ...string) (map[string]dto.StatsFact, error) {
	facts := make([]dto.StatsFact, len(charts))
	g, gctx := errgroup.WithContext(ctx)
	for i, chart := range charts {
		g.Go(func() error {
			fact, err := c.FetchFact(gctx, chart, w)
			if err != nil {
				return err
			}
			facts[i] = fact
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]dto.StatsFact, len(charts))
	for i, chart := range charts {
		out[chart] = facts[i]
	}
	return out, nil
}
