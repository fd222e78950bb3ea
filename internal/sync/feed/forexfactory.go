package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-market-calendar/internal/entity"
	"golang-market-calendar/internal/sync/config"
	"golang-market-calendar/internal/sync/dto"
	"golang-market-calendar/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

// impactClassMap maps the suffix of the ForexFactory impact icon class
// (icon--ff-impact-red, ...) to the impact label.
var impactClassMap = map[string]string{
	"red": "High",
	"ora": "Medium",
	"yel": "Low",
	"gra": "Non-Economic",
}

// ForexFactoryClient scrapes the ForexFactory economic calendar page.
type ForexFactoryClient struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewForexFactoryClient creates the economic calendar feed client.
func NewForexFactoryClient(cfg *config.Config, log *logger.Logger) *ForexFactoryClient {
	return &ForexFactoryClient{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Fetch implements Adapter for the economic calendar kind.
func (c *ForexFactoryClient) Fetch(ctx context.Context, req Request) ([]dto.RawRecord, error) {
	if req.Kind != entity.KindEconomicCalendar {
		return nil, fmt.Errorf("forexfactory client does not serve kind %q", req.Kind)
	}

	endpoint := c.cfg.ForexFactory.BaseURL + "/calendar"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &dto.FetchError{Kind: req.Kind, Err: err}
	}
	userAgent := c.cfg.ForexFactory.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (X11; Linux x86_64)"
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &dto.FetchError{Kind: req.Kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &dto.FetchError{Kind: req.Kind, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &dto.FetchError{Kind: req.Kind, Err: err}
	}

	events := ParseEconomicCalendar(doc, req.AsOf)
	if len(events) == 0 {
		c.log.Warn("No economic events found in calendar page")
	}
	return events, nil
}

// ParseEconomicCalendar extracts economic events from a ForexFactory
// calendar document. Day and time cells appear only on the first row of
// their group and are carried forward; the year is absent from day cells
// and inferred relative to asOf.
func ParseEconomicCalendar(doc *goquery.Document, asOf time.Time) []dto.RawRecord {
	var (
		events      []dto.RawRecord
		currentDate string
		currentTime string
	)

	doc.Find("table.calendar__table tr[data-event-id]").Each(func(_ int, row *goquery.Selection) {
		if raw := cellText(row, "td.calendar__date"); raw != "" {
			if day, ok := resolveCalendarDate(raw, asOf); ok {
				currentDate = day.Format("2006-01-02")
				currentTime = ""
			}
		}

		if t := cellText(row, "td.calendar__time"); t != "" {
			currentTime = t
		}

		eventName := cellText(row, "span.calendar__event-title")
		if eventName == "" || currentDate == "" {
			return
		}

		events = append(events, dto.RawEconomicEvent{
			Date:     currentDate,
			Time:     currentTime,
			Currency: cellText(row, "td.calendar__currency"),
			Impact:   impactLabel(row),
			Event:    eventName,
			Actual:   cellText(row, "td.calendar__actual"),
			Forecast: cellText(row, "td.calendar__forecast"),
			Previous: cellText(row, "td.calendar__previous"),
		})
	})

	return events
}

func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

func impactLabel(row *goquery.Selection) string {
	var label string
	row.Find("td.calendar__impact span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		class, _ := span.Attr("class")
		for _, cls := range strings.Fields(class) {
			if strings.HasPrefix(cls, "icon--ff-impact-") {
				suffix := cls[strings.LastIndex(cls, "-")+1:]
				label = impactClassMap[suffix]
				return false
			}
		}
		return true
	})
	return label
}

// resolveCalendarDate parses a day cell like "Thu Feb 26" and infers the
// year: more than 3 months in the future means last year, more than 9
// months in the past means next year.
func resolveCalendarDate(raw string, asOf time.Time) (time.Time, bool) {
	parsed, err := time.Parse("Mon Jan 2", normalizeDayCell(raw))
	if err != nil {
		return time.Time{}, false
	}

	candidate := time.Date(asOf.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	delta := candidate.Sub(utcMidnight(asOf)).Hours() / 24
	if delta > 90 {
		candidate = candidate.AddDate(-1, 0, 0)
	} else if delta < -270 {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, true
}

// normalizeDayCell collapses the stacked "ThuFeb 26" rendering of the day
// cell back to "Thu Feb 26".
func normalizeDayCell(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if len(raw) > 3 && raw[3] != ' ' {
		raw = raw[:3] + " " + raw[3:]
	}
	return raw
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
