package services

import (
	"context"
	"strings"
)

// IssueFieldValue is one resolved field value
type IssueFieldValue struct {
	IssueID string `json:"issueId"`
	Value   string `json:"value"`
	Found   bool   `json:"found"`
}

// BulkFieldValues holds the values of one field for a parent issue and all of
// its subtasks, resolved under a single field name.
type BulkFieldValues struct {
	ResolvedName string            `json:"resolvedName"`
	Parent       IssueFieldValue   `json:"parent"`
	Subtasks     []IssueFieldValue `json:"subtasks"`
}

// FieldValueSource is the aggregator's view of field resolution
type FieldValueSource interface {
	FieldValue(ctx context.Context, issueID string, candidates []string) (string, bool, error)
	BulkFieldValues(ctx context.Context, issueID string, candidates []string) (*BulkFieldValues, error)
}

// Resolver performs ordered, case-insensitive custom-field lookup against the
// host tracker. Candidate order wins over field order: the first candidate that
// matches any field name resolves, even when a later candidate would match an
// earlier field.
type Resolver struct {
	Tracker *TrackerClient
}

func NewResolver(tracker *TrackerClient) *Resolver {
	return &Resolver{Tracker: tracker}
}

// resolveAgainst picks the first candidate matching any field, returning the
// concrete field name as stored on the issue.
func resolveAgainst(fields []TrackerField, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for _, f := range fields {
			if strings.EqualFold(f.Name, candidate) {
				return f.Name, true
			}
		}
	}
	return "", false
}

func fieldValueByName(fields []TrackerField, name string) (string, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) && f.Value != "" {
			return f.Value, true
		}
	}
	return "", false
}

// ResolveFieldName reports whether any candidate field exists on the issue and
// which concrete name it resolved to.
func (r *Resolver) ResolveFieldName(ctx context.Context, issueID string, candidates []string) (string, bool, error) {
	fields, err := r.Tracker.GetIssueFields(issueID)
	if err != nil {
		return "", false, err
	}
	name, ok := resolveAgainst(fields, candidates)
	return name, ok, nil
}

// FieldValue returns the value of the first resolved candidate field on one issue
func (r *Resolver) FieldValue(ctx context.Context, issueID string, candidates []string) (string, bool, error) {
	fields, err := r.Tracker.GetIssueFields(issueID)
	if err != nil {
		return "", false, err
	}
	name, ok := resolveAgainst(fields, candidates)
	if !ok {
		return "", false, nil
	}
	value, found := fieldValueByName(fields, name)
	return value, found, nil
}

// BulkFieldValues resolves the field name once against the parent issue and
// returns its value for the parent and every subtask in one pass. Resolving
// against the parent keeps the batch a single fan-out instead of a per-subtask
// candidate search.
func (r *Resolver) BulkFieldValues(ctx context.Context, issueID string, candidates []string) (*BulkFieldValues, error) {
	issue, err := r.Tracker.GetIssue(issueID)
	if err != nil {
		return nil, err
	}
	parentFields, err := r.Tracker.GetIssueFields(issueID)
	if err != nil {
		return nil, err
	}

	result := &BulkFieldValues{
		Parent: IssueFieldValue{IssueID: issueID},
	}

	name, ok := resolveAgainst(parentFields, candidates)
	if !ok {
		// No candidate exists on the parent; nothing to fetch for subtasks either
		return result, nil
	}
	result.ResolvedName = name

	if value, found := fieldValueByName(parentFields, name); found {
		result.Parent.Value = value
		result.Parent.Found = true
	}

	for _, sub := range issue.Subtasks {
		entry := IssueFieldValue{IssueID: sub.ID}
		subFields, err := r.Tracker.GetIssueFields(sub.ID)
		if err == nil {
			if value, found := fieldValueByName(subFields, name); found {
				entry.Value = value
				entry.Found = true
			}
		}
		result.Subtasks = append(result.Subtasks, entry)
	}
	return result, nil
}
