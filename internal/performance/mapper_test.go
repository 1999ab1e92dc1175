package performance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/aggregation"
	"ticketpulse/internal/models/dto"
)

func f(v float64) *float64 { return &v }

const statsPayload = `{
  "data": [
    {
      "processingUser": {"id": "u1", "firstName": "Asha", "lastName": "Rao", "email": "Asha@x.com", "profileImageUrl": "https://img/a.png"},
      "totalCountForUser": {"value": 12},
      "rawClosed": {"value": 9},
      "medianReplyTime": {"value": "5m", "rawValue": 300, "valueUnit": "s"},
      "medianTimeToFirstReplyInSec": {"value": "2h", "rawValue": 7200},
      "medianFirstAssignmentReplyTime": {"value": null, "rawValue": null},
      "timeToLastCloseInSec": {"value": "0", "rawValue": 0},
      "averageRating": {"value": "😊 86"},
      "ticketActivityCount": {"value": 31},
      "hoursActive": {"value": "6.5h"}
    },
    {
      "processingUser": {"id": "u2", "email": "idle@x.com"},
      "totalCountForUser": {"value": 0},
      "ticketActivityCount": {"value": 0}
    },
    {
      "processingUser": {"id": "u3"},
      "totalCountForUser": {"value": 4}
    },
    {
      "totalCountForUser": {"value": 99}
    }
  ]
}`

func decode(t *testing.T) []dto.StatsItem {
	t.Helper()
	var resp dto.StatsListResponse
	require.NoError(t, json.Unmarshal([]byte(statsPayload), &resp))
	return resp.Data
}

func TestMapAgentRecord(t *testing.T) {
	items := decode(t)

	r, ok := MapAgentRecord(items[0])
	require.True(t, ok)
	assert.Equal(t, "asha@x.com", r.Key)
	assert.Equal(t, "Asha Rao", r.AgentName)
	assert.Equal(t, 12, r.TotalTickets)
	assert.Equal(t, 9, r.ClosedTickets)
	assert.Equal(t, "5.0m", r.MedianReplyTime)
	assert.Equal(t, "2.0h", r.MedianFirstReplyTime)
	assert.Equal(t, NoValue, r.MedianAssignmentReplyTime)
	assert.Equal(t, NoValue, r.TimeToLastClose)
	assert.Equal(t, "😊 86", r.AverageRating)
	require.NotNil(t, r.RatingScore)
	assert.Equal(t, 86.0, *r.RatingScore)
	assert.Equal(t, 31, r.TicketActivity)
	assert.Equal(t, "6.5h", r.HoursActive)

	idle, ok := MapAgentRecord(items[1])
	require.True(t, ok)
	assert.Equal(t, "idle@x.com", idle.AgentName, "email stands in for a missing name")
	assert.Nil(t, idle.RatingScore)
	assert.Equal(t, NoValue, idle.AverageRating)

	_, ok = MapAgentRecord(items[2])
	assert.False(t, ok, "rows with neither name nor email are excluded")
	_, ok = MapAgentRecord(items[3])
	assert.False(t, ok)
}

func TestMapAll_Policy(t *testing.T) {
	items := decode(t)

	overview := MapAll(items, Overview)
	require.Len(t, overview, 2)
	assert.Equal(t, "asha@x.com", overview[0].Key)

	shift := MapAll(items, ShiftView)
	require.Len(t, shift, 1)
	assert.Equal(t, "asha@x.com", shift[0].Key)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, NoValue},
		{f(0), NoValue},
		{f(-5), NoValue},
		{f(90), "1.5m"},
		{f(3599), "60.0m"},
		{f(3600), "1.0h"},
		{f(5400), "1.5h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 86.0, *ParseRating("😊 86"))
	assert.Equal(t, 4.5, *ParseRating("rating 4.5 of 5"))
	assert.Nil(t, ParseRating("--"))
	assert.Nil(t, ParseRating(""))
}

func TestComputeTotals(t *testing.T) {
	records := []Record{
		{TotalTickets: 3, RatingScore: f(80)},
		{TotalTickets: 2},
		{TotalTickets: 5, RatingScore: f(90)},
	}
	got := ComputeTotals(records)
	assert.Equal(t, Totals{TotalAgents: 3, TotalTickets: 10, AvgRating: 85}, got)

	assert.Equal(t, Totals{}, ComputeTotals(nil))
}

func TestToSummary_MergesLikeAggregates(t *testing.T) {
	first := MapAll(decode(t), ShiftView)
	second := []Record{{Key: "asha@x.com", AgentName: "Asha Rao", TotalTickets: 3, TicketActivity: 4, RatingScore: f(90)}}

	merged := aggregation.Merge(ToSummary(first), ToSummary(second))
	a := merged.Agents["asha@x.com"]
	require.NotNil(t, a)
	assert.Equal(t, 15, a.TotalTickets)
	assert.Equal(t, 35, a.TicketActivity)
	require.NotNil(t, a.RatingScore)
	assert.InDelta(t, 88.0, *a.RatingScore, 1e-9)
}
