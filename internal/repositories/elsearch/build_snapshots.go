package elsearch

import "ticketpulse/internal/models/dto"

// snapshotMapping is applied when the snapshot index is created
var snapshotMapping = []byte(`{
  "mappings": {
    "properties": {
      "id":                        {"type": "keyword"},
      "ticket_id":                 {"type": "keyword"},
      "agent_name":                {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "agent_email":               {"type": "keyword"},
      "agent_open_ticket":         {"type": "integer"},
      "ticket_status":             {"type": "keyword"},
      "ticket_type":               {"type": "keyword"},
      "priority":                  {"type": "keyword"},
      "sla_breached":              {"type": "boolean"},
      "has_agent_reply":           {"type": "boolean"},
      "time_open_duration":        {"type": "text"},
      "tags":                      {"type": "text"},
      "updated_at":                {"type": "keyword"},
      "latest_comment_created_at": {"type": "keyword"},
      "plan_type":                 {"type": "keyword"},
      "user_name":                 {"type": "text"},
      "user_email":                {"type": "keyword"},
      "refreshed_at":              {"type": "date"}
    }
  }
}`)

// buildSnapshotQuery builds the search body of one snapshot page
func buildSnapshotQuery(params dto.SnapshotSearchParams, from, size int) map[string]interface{} {
	var filters []map[string]interface{}
	if params.Agent != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"agent_name.keyword": params.Agent},
		})
	}
	if params.Plan != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"plan_type": params.Plan},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	sort := []map[string]interface{}{
		{"agent_open_ticket": map[string]string{"order": "desc"}},
		{"id": map[string]string{"order": "asc"}},
	}

	if params.Query == "" {
		if len(filters) == 0 {
			return map[string]interface{}{
				"from":  from,
				"size":  size,
				"query": map[string]interface{}{"match_all": map[string]interface{}{}},
				"sort":  sort,
			}
		}
		return map[string]interface{}{
			"from":  from,
			"size":  size,
			"query": map[string]interface{}{"bool": boolQuery},
			"sort":  sort,
		}
	}

	boolQuery["must"] = map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query": params.Query,
			"fields": []string{
				"agent_name^3",
				"user_name^2",
				"tags^2",
				"time_open_duration",
				"user_email",
				"ticket_id",
			},
			"type":      "best_fields",
			"fuzziness": "AUTO",
			"operator":  "or",
		},
	}

	return map[string]interface{}{
		"from":  from,
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": append([]map[string]interface{}{
			{"_score": map[string]string{"order": "desc"}},
		}, sort...),
	}
}
