package wordcab

import (
	"fmt"
	"strconv"
	"time"
)

const (
	StatusPending         = "Pending"
	StatusRunning         = "Running"
	StatusSummaryComplete = "SummaryComplete"
	StatusDeleted         = "Deleted"
	StatusError           = "Error"
)

var timeLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	time.RFC3339Nano,
}

type SummaryRequest struct {
	Transcript    []string
	DisplayName   string
	SourceLang    string
	SummaryType   string
	SummaryLength int
	Tags          []string
}

type Job struct {
	JobName        string         `json:"job_name"`
	JobStatus      string         `json:"job_status"`
	DisplayName    string         `json:"display_name"`
	SummaryDetails SummaryDetails `json:"summary_details"`
}

type SummaryDetails struct {
	SummaryID string `json:"summary_id"`
}

func (j *Job) Labels() map[string]string {
	return map[string]string{
		"job_name":   j.JobName,
		"job_status": j.JobStatus,
	}
}

type Utterance struct {
	Summary string `json:"summary"`
}

type SummaryLength struct {
	StructuredSummary []Utterance `json:"structured_summary"`
}

type Summary struct {
	SummaryID     string                   `json:"summary_id"`
	JobName       string                   `json:"job_name"`
	TimeStarted   string                   `json:"time_started"`
	TimeCompleted string                   `json:"time_completed"`
	Summary       map[string]SummaryLength `json:"summary"`
}

// Utterances returns the structured summary generated for the given length.
func (s *Summary) Utterances(length int) []Utterance {
	return s.Summary[strconv.Itoa(length)].StructuredSummary
}

func (s *Summary) Started() (time.Time, error) {
	return parseTime(s.TimeStarted)
}

func (s *Summary) Completed() (time.Time, error) {
	return parseTime(s.TimeCompleted)
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time, %s", value)
}

type Account struct {
	Email string `json:"email"`
}
