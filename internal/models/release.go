package models

// ReleaseStatus is the lifecycle state of a release version
type ReleaseStatus string

const (
	StatusPlanning   ReleaseStatus = "Planning"
	StatusInProgress ReleaseStatus = "In progress"
	StatusReleased   ReleaseStatus = "Released"
	StatusOverdue    ReleaseStatus = "Overdue"
	StatusCanceled   ReleaseStatus = "Canceled"
)

// ValidReleaseStatus reports whether s is one of the five allowed values
func ValidReleaseStatus(s ReleaseStatus) bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusReleased, StatusOverdue, StatusCanceled:
		return true
	}
	return false
}

// PlannedIssue is one entry of a release version's planned-issue list.
// A regular entry references a single issue in the host tracker; a meta entry
// (IsMeta=true) is a synthetic row aggregating several real issue ids.
type PlannedIssue struct {
	ID                  string   `json:"id"`
	Summary             string   `json:"summary,omitempty"`
	IsMeta              bool     `json:"isMeta,omitempty"`
	MetaRelatedIssueIds []string `json:"metaRelatedIssueIds,omitempty"`
}

// ReleaseVersion is the central planning record
type ReleaseVersion struct {
	ID                string         `json:"id"`
	Version           string         `json:"version"`
	Product           string         `json:"product,omitempty"`
	Description       string         `json:"description,omitempty"`
	AdditionalInfo    string         `json:"additionalInfo,omitempty"`
	FeatureFreezeDate string         `json:"featureFreezeDate,omitempty"`
	ReleaseDate       string         `json:"releaseDate"`
	Status            ReleaseStatus  `json:"status"`
	FreezeConfirmed   bool           `json:"freezeConfirmed"`
	PlannedIssues     []PlannedIssue `json:"plannedIssues,omitempty"`
	LinkedIssues      []string       `json:"linkedIssues,omitempty"`
}
