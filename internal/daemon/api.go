package daemon

import (
	"time"

	"github.com/theirongolddev/tripdeck/internal/markers"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/schedule"
	"github.com/theirongolddev/tripdeck/internal/search"
)

type itemJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Notes         string            `json:"notes,omitempty"`
	Category      model.Category    `json:"category"`
	PlannedAt     *time.Time        `json:"planned_at,omitempty"`
	Time          string            `json:"time,omitempty"`
	DurationHours *float64          `json:"duration_hours,omitempty"`
	Location      *model.Coordinate `json:"location,omitempty"`
}

type dayJSON struct {
	Key    string     `json:"key"`
	Number int        `json:"number"`
	Label  string     `json:"label"`
	Items  []itemJSON `json:"items"`
}

type scheduleJSON struct {
	Days        []dayJSON  `json:"days"`
	Unscheduled []itemJSON `json:"unscheduled"`
}

func toItemJSON(it model.ItineraryItem, loc *time.Location) itemJSON {
	out := itemJSON{
		ID:            it.ID,
		Name:          it.Name,
		Notes:         it.Notes,
		Category:      it.Category,
		PlannedAt:     it.PlannedAt,
		DurationHours: it.DurationHours,
		Location:      it.Location,
	}
	if it.PlannedAt != nil {
		out.Time = schedule.FormatTime(*it.PlannedAt, loc)
	}
	return out
}

func scheduleResponse(sch schedule.Schedule, loc *time.Location) scheduleJSON {
	out := scheduleJSON{Days: []dayJSON{}, Unscheduled: []itemJSON{}}
	for _, d := range sch.Days {
		day := dayJSON{Key: d.Key, Number: d.Number, Label: d.Label}
		for _, it := range d.Items {
			day.Items = append(day.Items, toItemJSON(it, loc))
		}
		out.Days = append(out.Days, day)
	}
	for _, it := range sch.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, toItemJSON(it, loc))
	}
	return out
}

type markersResponse struct {
	View    markers.View      `json:"view"`
	Markers []model.MapMarker `json:"markers"`
}

type candidateJSON struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Position model.Coordinate `json:"position"`
	Source   string           `json:"source"`
}

type searchJSON struct {
	Term        string          `json:"term"`
	TooShort    bool            `json:"too_short,omitempty"`
	Synthetic   bool            `json:"synthetic,omitempty"`
	RemoteError string          `json:"remote_error,omitempty"`
	Candidates  []candidateJSON `json:"candidates"`
}

func searchResponse(res search.Result) searchJSON {
	out := searchJSON{
		Term:       res.Term,
		TooShort:   res.TooShort,
		Synthetic:  res.Synthetic,
		Candidates: []candidateJSON{},
	}
	if res.RemoteErr != nil {
		out.RemoteError = res.RemoteErr.Error()
	}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, candidateJSON{
			ID:       c.ID,
			Name:     c.Name,
			Label:    c.Label,
			Position: c.Position,
			Source:   c.Source.String(),
		})
	}
	return out
}

// createItemRequest is the body of POST /v1/items. Term is searched and
// CandidateID (or the first result) becomes the item location.
type createItemRequest struct {
	Term        string         `json:"term"`
	CandidateID string         `json:"candidate_id"`
	Name        string         `json:"name"`
	Notes       string         `json:"notes"`
	Category    model.Category `json:"category"`
	PlannedAt   string         `json:"planned_at"`
	Duration    string         `json:"duration"`
}
