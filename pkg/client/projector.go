package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// DefaultPageSize is the page length of the event list projection.
const DefaultPageSize = 10

// Filters is the full filter set for the event list. Category, format,
// city, level and sort are pushed to the server; free-text matching and the
// date range are refined locally on the fetched result.
type Filters struct {
	Text     string
	Category string
	Format   string
	City     string
	Level    string
	Sort     string // date | rating | popularity
	DateFrom time.Time
	DateTo   time.Time
}

// ProjectedPage is one page of the current projection.
type ProjectedPage struct {
	Events     []*api.Event
	Page       int
	TotalPages int
	Total      int
}

// QueryProjector maintains a filtered, paginated view over the event list.
// Changing the filters re-fetches and resets to the first page; paging is
// purely local.
type QueryProjector struct {
	client   *Client
	pageSize int

	mu      sync.Mutex
	matched []*api.Event
	page    int
}

func NewQueryProjector(client *Client) *QueryProjector {
	return &QueryProjector{client: client, pageSize: DefaultPageSize, page: 1}
}

// List applies the filters and returns the first page of the new
// projection.
func (qp *QueryProjector) List(ctx context.Context, filters Filters) (*ProjectedPage, error) {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Format != "" {
		query.Set("format", filters.Format)
	}
	if filters.City != "" {
		query.Set("city", filters.City)
	}
	if filters.Level != "" {
		query.Set("level", filters.Level)
	}
	if filters.Sort != "" {
		query.Set("sort", filters.Sort)
	}

	var events []*api.Event
	if err := qp.client.do(ctx, http.MethodGet, "/api/v1/events", query, nil, &events); err != nil {
		return nil, err
	}

	matched := refine(events, filters)

	qp.mu.Lock()
	qp.matched = matched
	qp.page = 1
	page := qp.pageLocked()
	qp.mu.Unlock()
	return page, nil
}

// Page moves to page n of the current projection without refetching. Out
// of range values clamp to the nearest valid page.
func (qp *QueryProjector) Page(n int) *ProjectedPage {
	qp.mu.Lock()
	defer qp.mu.Unlock()

	total := qp.totalPagesLocked()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	qp.page = n
	return qp.pageLocked()
}

func (qp *QueryProjector) totalPagesLocked() int {
	pages := (len(qp.matched) + qp.pageSize - 1) / qp.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (qp *QueryProjector) pageLocked() *ProjectedPage {
	start := (qp.page - 1) * qp.pageSize
	end := start + qp.pageSize
	if start > len(qp.matched) {
		start = len(qp.matched)
	}
	if end > len(qp.matched) {
		end = len(qp.matched)
	}
	return &ProjectedPage{
		Events:     qp.matched[start:end],
		Page:       qp.page,
		TotalPages: qp.totalPagesLocked(),
		Total:      len(qp.matched),
	}
}

// refine applies the locally evaluated predicates: case-insensitive
// substring match on title and description, and an inclusive date window.
// DateTo extends to the end of its day so "to 2026-09-01" includes events
// that evening.
func refine(events []*api.Event, filters Filters) []*api.Event {
	text := strings.ToLower(strings.TrimSpace(filters.Text))
	var to time.Time
	if !filters.DateTo.IsZero() {
		y, m, d := filters.DateTo.Date()
		to = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), filters.DateTo.Location())
	}

	var matched []*api.Event
	for _, e := range events {
		if text != "" &&
			!strings.Contains(strings.ToLower(e.Title), text) &&
			!strings.Contains(strings.ToLower(e.Description), text) {
			continue
		}
		if !filters.DateFrom.IsZero() && e.Date.Before(filters.DateFrom) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}
