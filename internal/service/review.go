package service

import (
	"time"

	apperrors "medcamp/internal/errors"
	"medcamp/internal/model"
)

// Placeholders shown when a submitter has no profile, or left a field empty.
const (
	UnknownSubmitterName = "Unknown"
	UnknownOrganization  = "N/A"
)

// FilterAll selects every submission.
const FilterAll = "all"

// CampView is a submission as shown on a dashboard.
type CampView struct {
	model.CampSubmission
	CampLocalTime         string `json:"camp_local_time"`
	SubmitterName         string `json:"submitter_name"`
	SubmitterOrganization string `json:"submitter_organization"`
}

// NewCampView resolves display fields. A missing profile never fails the view.
func NewCampView(camp model.CampSubmission) CampView {
	view := CampView{
		CampSubmission:        camp,
		CampLocalTime:         localTime(camp),
		SubmitterName:         UnknownSubmitterName,
		SubmitterOrganization: UnknownOrganization,
	}
	if camp.Profile != nil {
		if camp.Profile.FullName != "" {
			view.SubmitterName = camp.Profile.FullName
		}
		if camp.Profile.Organization != "" {
			view.SubmitterOrganization = camp.Profile.Organization
		}
	}
	return view
}

func localTime(camp model.CampSubmission) string {
	loc, err := time.LoadLocation(camp.CampTimezone)
	if err != nil {
		loc = time.UTC
	}
	return camp.CampDate.In(loc).Format(localDateTimeLayout)
}

// NewCampViews maps submissions to views, keeping order.
func NewCampViews(camps []model.CampSubmission) []CampView {
	views := make([]CampView, 0, len(camps))
	for _, camp := range camps {
		views = append(views, NewCampView(camp))
	}
	return views
}

// Stats counts submissions per status. Total always equals Pending+Approved+Rejected.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ComputeStats scans camps once.
func ComputeStats(camps []CampView) Stats {
	stats := Stats{Total: len(camps)}
	for _, camp := range camps {
		switch camp.Status {
		case model.CampStatusPending:
			stats.Pending++
		case model.CampStatusApproved:
			stats.Approved++
		case model.CampStatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// FilterByStatus returns the camps whose status equals filter, in their original order.
// "all" and "" return camps unchanged. It never re-queries.
func FilterByStatus(camps []CampView, filter string) ([]CampView, error) {
	if filter == "" || filter == FilterAll {
		return camps, nil
	}
	status := model.CampStatus(filter)
	if !status.Valid() {
		return nil, apperrors.ErrInvalidFilter
	}
	out := make([]CampView, 0, len(camps))
	for _, camp := range camps {
		if camp.Status == status {
			out = append(out, camp)
		}
	}
	return out, nil
}

// Transition is the single gate for review decisions. Only approved and rejected can be
// set, from any current status, so admins may reverse a decision.
// TODO: make approved and rejected terminal once product confirms decisions are final.
func Transition(from, to model.CampStatus) error {
	if !from.Valid() {
		return apperrors.ErrInvalidStatus
	}
	switch to {
	case model.CampStatusApproved, model.CampStatusRejected:
		return nil
	}
	return apperrors.ErrInvalidStatus
}
