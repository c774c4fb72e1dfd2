package services

import (
	"context"
	"strings"

	"github.com/ve-ev/release-manager-app/internal/models"
	"github.com/ve-ev/release-manager-app/pkg/logger"
)

// Zone is the coarse progress bucket derived from a custom-field value
type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
	ZoneGrey   Zone = "grey"
)

// ProgressTally is the rolled-up result for one release version. Each planned
// issue (a meta entry counts as a single unit) contributes exactly 1 to Total;
// Discoped issues are excluded entirely. Available distinguishes "no progress
// data yet" from a definitive grey.
type ProgressTally struct {
	Green     int  `json:"green"`
	Yellow    int  `json:"yellow"`
	Red       int  `json:"red"`
	Grey      int  `json:"grey"`
	Total     int  `json:"total"`
	Available bool `json:"available"`
}

// zoneConfig maps custom-field values to zones, case-insensitively
type zoneConfig map[string]Zone

func newZoneConfig(settings *models.AppSettings) zoneConfig {
	cfg := zoneConfig{}
	if settings == nil {
		return cfg
	}
	for _, v := range settings.GreenZoneValues {
		cfg[strings.ToLower(v)] = ZoneGreen
	}
	for _, v := range settings.YellowZoneValues {
		cfg[strings.ToLower(v)] = ZoneYellow
	}
	for _, v := range settings.RedZoneValues {
		cfg[strings.ToLower(v)] = ZoneRed
	}
	return cfg
}

func (cfg zoneConfig) zoneFor(value string) Zone {
	if zone, ok := cfg[strings.ToLower(value)]; ok {
		return zone
	}
	return ZoneGrey
}

// issueResult is the outcome of aggregating one planned issue
type issueResult struct {
	zone    Zone
	hasData bool
}

// issueAggregator resolves one planned-issue entry to a zone. Regular and meta
// entries aggregate differently; both collapse to a single zone so the release
// header matches the sum of the per-row dots.
type issueAggregator interface {
	aggregate(ctx context.Context, a *Aggregator) issueResult
}

// Aggregator computes release-level progress tallies
type Aggregator struct {
	source     FieldValueSource
	statuses   *models.IssueStatusData
	zones      zoneConfig
	candidates []string
}

func NewAggregator(source FieldValueSource, settings *models.AppSettings, statuses *models.IssueStatusData) *Aggregator {
	if statuses == nil {
		statuses = models.NewIssueStatusData()
	}
	var candidates []string
	if settings != nil {
		candidates = settings.CustomFieldNames
	}
	return &Aggregator{
		source:     source,
		statuses:   statuses,
		zones:      newZoneConfig(settings),
		candidates: candidates,
	}
}

func (a *Aggregator) manualStatus(issueID string) models.IssueStatus {
	return a.statuses.IssueStatuses[issueID]
}

func manualDone(status models.IssueStatus) bool {
	return status == models.IssueFixed || status == models.IssueMerged
}

// combineZones folds fine-grained results into one zone with tie-break
// priority red > yellow > all-green > grey. Green only wins when every entry
// is green and at least one entry exists.
func combineZones(results []issueResult) issueResult {
	combined := issueResult{zone: ZoneGrey}
	allGreen := len(results) > 0
	for _, r := range results {
		if r.hasData {
			combined.hasData = true
		}
		if r.zone != ZoneGreen {
			allGreen = false
		}
		switch r.zone {
		case ZoneRed:
			combined.zone = ZoneRed
		case ZoneYellow:
			if combined.zone != ZoneRed {
				combined.zone = ZoneYellow
			}
		}
	}
	if combined.zone == ZoneGrey && allGreen {
		combined.zone = ZoneGreen
	}
	return combined
}

// metaIssue aggregates the related issue ids of a synthetic meta entry
type metaIssue struct {
	relatedIDs []string
}

func (m metaIssue) aggregate(ctx context.Context, a *Aggregator) issueResult {
	var parts []issueResult
	for _, id := range m.relatedIDs {
		status := a.manualStatus(id)
		if status == models.IssueDiscoped {
			continue
		}
		if manualDone(status) {
			parts = append(parts, issueResult{zone: ZoneGreen, hasData: true})
			continue
		}
		if len(a.candidates) == 0 {
			parts = append(parts, issueResult{zone: ZoneGrey})
			continue
		}
		value, found, err := a.source.FieldValue(ctx, id, a.candidates)
		if err != nil {
			logger.Warn().Err(err).Str("issue", id).Msg("Failed to resolve field for related issue")
			parts = append(parts, issueResult{zone: ZoneGrey})
			continue
		}
		if !found {
			parts = append(parts, issueResult{zone: ZoneGrey})
			continue
		}
		parts = append(parts, issueResult{zone: a.zones.zoneFor(value), hasData: true})
	}
	if len(parts) == 0 {
		// Everything discoped or an empty meta entry
		return issueResult{zone: ZoneGrey}
	}
	return combineZones(parts)
}

// regularIssue aggregates a real issue with its subtasks in one batched fetch
type regularIssue struct {
	issueID string
}

func (r regularIssue) aggregate(ctx context.Context, a *Aggregator) issueResult {
	if len(a.candidates) == 0 {
		// No custom field configured: only manual overrides count
		return issueResult{zone: ZoneGrey}
	}
	bulk, err := a.source.BulkFieldValues(ctx, r.issueID, a.candidates)
	if err != nil {
		logger.Warn().Err(err).Str("issue", r.issueID).Msg("Failed to fetch field values")
		return issueResult{zone: ZoneGrey}
	}
	if bulk.Parent.Found {
		// A value on the parent alone determines the zone
		return issueResult{zone: a.zones.zoneFor(bulk.Parent.Value), hasData: true}
	}
	var parts []issueResult
	for _, sub := range bulk.Subtasks {
		if !sub.Found {
			continue
		}
		parts = append(parts, issueResult{zone: a.zones.zoneFor(sub.Value), hasData: true})
	}
	if len(parts) == 0 {
		return issueResult{zone: ZoneGrey}
	}
	return combineZones(parts)
}

func aggregatorFor(issue models.PlannedIssue) issueAggregator {
	if issue.IsMeta {
		return metaIssue{relatedIDs: issue.MetaRelatedIssueIds}
	}
	return regularIssue{issueID: issue.ID}
}

// ReleaseProgress computes the {green,yellow,red,grey,total} tally for a
// release version's planned-issue list.
func (a *Aggregator) ReleaseProgress(ctx context.Context, planned []models.PlannedIssue) ProgressTally {
	var tally ProgressTally
	for _, issue := range planned {
		status := a.manualStatus(issue.ID)
		if status == models.IssueDiscoped {
			continue
		}

		var result issueResult
		if manualDone(status) {
			// Manual status wins over any field-based computation
			result = issueResult{zone: ZoneGreen, hasData: true}
		} else {
			result = aggregatorFor(issue).aggregate(ctx, a)
		}

		tally.Total++
		if result.hasData {
			tally.Available = true
		}
		switch result.zone {
		case ZoneGreen:
			tally.Green++
		case ZoneYellow:
			tally.Yellow++
		case ZoneRed:
			tally.Red++
		default:
			tally.Grey++
		}
	}
	return tally
}
