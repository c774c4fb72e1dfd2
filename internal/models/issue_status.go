package models

// IssueStatus is a manual per-issue override set by release managers
type IssueStatus string

const (
	IssueUnresolved IssueStatus = "Unresolved"
	IssueFixed      IssueStatus = "Fixed"
	IssueMerged     IssueStatus = "Merged"
	IssueDiscoped   IssueStatus = "Discoped"
)

func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssueUnresolved, IssueFixed, IssueMerged, IssueDiscoped:
		return true
	}
	return false
}

// TestStatus tracks QA state per issue
type TestStatus string

const (
	TestTested    TestStatus = "Tested"
	TestNotTested TestStatus = "Not tested"
	TestNA        TestStatus = "Test NA"
)

func ValidTestStatus(s TestStatus) bool {
	switch s {
	case TestTested, TestNotTested, TestNA:
		return true
	}
	return false
}

// IssueStatusData is the project-scoped shared status state: two parallel maps
// keyed by issue id. Invariant: a test status other than "Not tested" is only
// meaningful while the issue status is Fixed or Merged.
type IssueStatusData struct {
	IssueStatuses map[string]IssueStatus `json:"issueStatuses"`
	TestStatuses  map[string]TestStatus  `json:"testStatuses"`
}

// NewIssueStatusData returns an empty status map pair
func NewIssueStatusData() *IssueStatusData {
	return &IssueStatusData{
		IssueStatuses: map[string]IssueStatus{},
		TestStatuses:  map[string]TestStatus{},
	}
}
