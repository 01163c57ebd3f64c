// Package usajobs is a client for the USAJOBS search API.
package usajobs

import (
	"encoding/json"
	"strings"
)

// Fallbacks used when a record lacks a title or organization.
const (
	DefaultTitle  = "Job Role"
	DefaultAgency = "Government Agency"
)

// JobRecord is one search result item. Raw keeps the item exactly as returned so it
// can be saved and re-read without losing fields this package does not model.
type JobRecord struct {
	MatchedObjectID         string             `json:"MatchedObjectId"`
	MatchedObjectDescriptor PositionDescriptor `json:"MatchedObjectDescriptor"`
	RelevanceRank           float64            `json:"RelevanceRank,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// PositionDescriptor holds the fields of a listing used by this tool.
type PositionDescriptor struct {
	PositionID              string   `json:"PositionID,omitempty"`
	PositionTitle           string   `json:"PositionTitle"`
	PositionURI             string   `json:"PositionURI,omitempty"`
	PositionLocationDisplay string   `json:"PositionLocationDisplay,omitempty"`
	OrganizationName        string   `json:"OrganizationName"`
	DepartmentName          string   `json:"DepartmentName,omitempty"`
	QualificationSummary    string   `json:"QualificationSummary,omitempty"`
	ApplyURI                []string `json:"ApplyURI,omitempty"`
	UserArea                UserArea `json:"UserArea"`
}

// UserArea wraps the listing details.
type UserArea struct {
	Details Details `json:"Details"`
}

// Details carries the nested job summary.
type Details struct {
	JobSummary               string `json:"JobSummary"`
	LowGrade                 string `json:"LowGrade,omitempty"`
	HighGrade                string `json:"HighGrade,omitempty"`
	AgencyMarketingStatement string `json:"AgencyMarketingStatement,omitempty"`
}

// UnmarshalJSON decodes the record and keeps a copy of the raw bytes.
func (r *JobRecord) UnmarshalJSON(data []byte) error {
	type plain JobRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = JobRecord(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the raw bytes when present so unknown fields survive a round trip.
func (r JobRecord) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain JobRecord
	return json.Marshal(plain(r))
}

// Title returns the position title or DefaultTitle.
func (r *JobRecord) Title() string {
	return orDefault(r.MatchedObjectDescriptor.PositionTitle, DefaultTitle)
}

// Agency returns the organization name or DefaultAgency.
func (r *JobRecord) Agency() string {
	return orDefault(r.MatchedObjectDescriptor.OrganizationName, DefaultAgency)
}

// Summary returns the nested job summary, which may be empty.
func (r *JobRecord) Summary() string {
	return r.MatchedObjectDescriptor.UserArea.Details.JobSummary
}

// ID identifies the record for de-duplication.
func (r *JobRecord) ID() string {
	if r.MatchedObjectID != "" {
		return r.MatchedObjectID
	}
	return r.MatchedObjectDescriptor.PositionID
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// searchResponse is the envelope returned by the search endpoint.
type searchResponse struct {
	SearchResult struct {
		SearchResultCount    int         `json:"SearchResultCount"`
		SearchResultCountAll int         `json:"SearchResultCountAll"`
		SearchResultItems    []JobRecord `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

// errorBody covers the error payload shapes the API returns.
type errorBody struct {
	Message  string `json:"Message"`
	Message2 string `json:"message"`
}

func (e errorBody) text() string {
	return strings.TrimSpace(firstNonEmpty(e.Message, e.Message2))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
