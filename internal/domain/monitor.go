package domain

import "time"

// ChangeTag classifies a captured row relative to the prior poll.
type ChangeTag string

const (
	TagNew       ChangeTag = "NEW"
	TagUnchanged ChangeTag = "UNCHANGED"
	TagRemoved   ChangeTag = "REMOVED"
	TagNone      ChangeTag = ""
)

// changeTagField is the synthetic field the monitor injects once a
// baseline exists. Baseline runs carry no tag at all.
const changeTagField = "_STATUS"

// CapturedRecord is one observed row as delivered by the monitored
// source: a plain field-name to value mapping.
type CapturedRecord map[string]string

// ChangeTag returns the record's change classification, TagNone when the
// run that produced it was a baseline.
func (r CapturedRecord) ChangeTag() ChangeTag {
	return ChangeTag(r[changeTagField])
}

// Tagged reports whether the record carries any change classification.
func (r CapturedRecord) Tagged() bool {
	_, ok := r[changeTagField]
	return ok
}

// RunOrigin distinguishes scheduled monitor polls from manual inspections.
type RunOrigin string

const (
	OriginScheduled RunOrigin = "scheduled"
	OriginManual    RunOrigin = "manual"
)

// RunSuccessful is the terminal status of a poll that captured data.
const RunSuccessful = "successful"

// MonitorRun is one polling execution against a monitored source.
type MonitorRun struct {
	ID        string
	CreatedAt time.Time
	Origin    RunOrigin
	Status    string
	Records   []CapturedRecord
}

// Successful reports whether the run finished with captured data.
func (m MonitorRun) Successful() bool {
	return m.Status == RunSuccessful
}

// SourceEntry is a captured record narrowed to the fields the pipeline
// consumes, validated at the change-set boundary so downstream code never
// touches raw field maps. Reference holds the document number, or the
// title for press releases.
type SourceEntry struct {
	Reference string
	Date      string
}
