package api

import (
	"errors"
	"testing"
	"time"
)

func offlinePayload() EventPayload {
	return EventPayload{
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		Date:        time.Now().Add(24 * time.Hour),
		Category:    "IT",
		Format:      FormatOffline,
		Level:       "All",
		Capacity:    30,
		Address:     "Nevsky 1",
		City:        "Saint Petersburg",
	}
}

func onlinePayload() EventPayload {
	return EventPayload{
		Title:          "Go Webinar",
		Description:    "Remote talk",
		Date:           time.Now().Add(24 * time.Hour),
		Category:       "IT",
		Format:         FormatOnline,
		Level:          "Beginner",
		Capacity:       200,
		ConferenceLink: "https://meet.example.com/go",
	}
}

func wantValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError on %q", err, field)
	}
	if verr.Field != field {
		t.Errorf("validation field = %q, want %q", verr.Field, field)
	}
}

func TestPayloadValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EventPayload)
		field  string
	}{
		{"empty title", func(p *EventPayload) { p.Title = "  " }, "title"},
		{"empty description", func(p *EventPayload) { p.Description = "" }, "description"},
		{"zero date", func(p *EventPayload) { p.Date = time.Time{} }, "date"},
		{"unknown category", func(p *EventPayload) { p.Category = "Cooking" }, "category"},
		{"unknown level", func(p *EventPayload) { p.Level = "Expert" }, "level"},
		{"zero capacity", func(p *EventPayload) { p.Capacity = 0 }, "capacity"},
		{"unknown format", func(p *EventPayload) { p.Format = "hybrid" }, "format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := offlinePayload()
			tc.mutate(&p)
			wantValidationField(t, p.Validate(), tc.field)
		})
	}
}

func TestFormatExclusivity(t *testing.T) {
	offline := offlinePayload()
	offline.ConferenceLink = "https://meet.example.com/go"
	wantValidationField(t, offline.Validate(), "conference_link")

	offline = offlinePayload()
	offline.Address = ""
	wantValidationField(t, offline.Validate(), "address")

	online := onlinePayload()
	online.City = "Moscow"
	wantValidationField(t, online.Validate(), "address")

	online = onlinePayload()
	online.ConferenceLink = ""
	wantValidationField(t, online.Validate(), "conference_link")
}

func TestApplyClearsUnusedFormatFields(t *testing.T) {
	lat, lon := 59.93, 30.36
	event := &Event{
		Address:   "Nevsky 1",
		City:      "Saint Petersburg",
		Latitude:  &lat,
		Longitude: &lon,
	}

	online := onlinePayload()
	if err := online.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	online.Apply(event)
	if event.Address != "" || event.City != "" || event.Latitude != nil || event.Longitude != nil {
		t.Error("switching to online must clear location fields")
	}
	if event.ConferenceLink == "" {
		t.Error("switching to online must set the conference link")
	}

	offline := offlinePayload()
	if err := offline.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	offline.Apply(event)
	if event.ConferenceLink != "" {
		t.Error("switching to offline must clear the conference link")
	}
	if event.Address == "" || event.City == "" {
		t.Error("switching to offline must set the location")
	}
}

func TestApplyLeavesAggregatesAlone(t *testing.T) {
	event := &Event{GoingCount: 7, RatingSum: 20, RatingCount: 5, Images: []string{"a.jpg"}}

	p := onlinePayload()
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p.Apply(event)

	if event.GoingCount != 7 || event.RatingSum != 20 || event.RatingCount != 5 {
		t.Error("payload application must not touch attendance or rating aggregates")
	}
	if len(event.Images) != 1 {
		t.Error("payload application must not touch images")
	}
}

func TestRatingAvg(t *testing.T) {
	e := &Event{}
	if got := e.RatingAvg(); got != 0 {
		t.Errorf("empty average = %v, want 0", got)
	}
	e.RatingSum, e.RatingCount = 6, 2
	if got := e.RatingAvg(); got != 3.0 {
		t.Errorf("average = %v, want 3.0", got)
	}
}
