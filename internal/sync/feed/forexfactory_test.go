package feed

import (
	"strings"
	"testing"
	"time"

	"golang-market-calendar/internal/sync/dto"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarFixture = `
<html><body>
<table class="calendar__table">
<tr data-event-id="1001">
  <td class="calendar__date"><span>ThuFeb 26</span></td>
  <td class="calendar__time">8:30am</td>
  <td class="calendar__currency">USD</td>
  <td class="calendar__impact"><span class="icon icon--ff-impact-red"></span></td>
  <td class="calendar__event"><span class="calendar__event-title">Core PCE Price Index m/m</span></td>
  <td class="calendar__actual">0.3%</td>
  <td class="calendar__forecast">0.3%</td>
  <td class="calendar__previous">0.2%</td>
</tr>
<tr data-event-id="1002">
  <td class="calendar__date"></td>
  <td class="calendar__time"></td>
  <td class="calendar__currency">USD</td>
  <td class="calendar__impact"><span class="icon icon--ff-impact-yel"></span></td>
  <td class="calendar__event"><span class="calendar__event-title">Unemployment Claims</span></td>
  <td class="calendar__actual"></td>
  <td class="calendar__forecast">215K</td>
  <td class="calendar__previous">212K</td>
</tr>
<tr data-event-id="1003">
  <td class="calendar__date"><span>FriFeb 27</span></td>
  <td class="calendar__time">All Day</td>
  <td class="calendar__currency">EUR</td>
  <td class="calendar__impact"><span class="icon icon--ff-impact-gra"></span></td>
  <td class="calendar__event"><span class="calendar__event-title">Bank Holiday</span></td>
  <td class="calendar__actual"></td>
  <td class="calendar__forecast"></td>
  <td class="calendar__previous"></td>
</tr>
</table>
</body></html>`

func parseFixture(t *testing.T) []dto.RawRecord {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(calendarFixture))
	require.NoError(t, err)
	return ParseEconomicCalendar(doc, time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC))
}

func TestParseEconomicCalendar_Rows(t *testing.T) {
	records := parseFixture(t)
	require.Len(t, records, 3)

	first, ok := records[0].(dto.RawEconomicEvent)
	require.True(t, ok)
	assert.Equal(t, "2026-02-26", first.Date)
	assert.Equal(t, "8:30am", first.Time)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "High", first.Impact)
	assert.Equal(t, "Core PCE Price Index m/m", first.Event)
	assert.Equal(t, "0.3%", first.Actual)
	assert.Equal(t, "0.2%", first.Previous)
}

func TestParseEconomicCalendar_DayAndTimeCarryForward(t *testing.T) {
	records := parseFixture(t)

	second := records[1].(dto.RawEconomicEvent)
	assert.Equal(t, "2026-02-26", second.Date, "day cell carries forward within the group")
	assert.Equal(t, "8:30am", second.Time, "time cell carries forward within the group")
	assert.Equal(t, "Low", second.Impact)

	// A new day cell resets the carried time.
	third := records[2].(dto.RawEconomicEvent)
	assert.Equal(t, "2026-02-27", third.Date)
	assert.Equal(t, "All Day", third.Time)
	assert.Equal(t, "Non-Economic", third.Impact)
}

func TestResolveCalendarDate_YearInference(t *testing.T) {
	asOf := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// A date far in the future relative to asOf belongs to last year.
	d, ok := resolveCalendarDate("Wed Dec 30", asOf)
	require.True(t, ok)
	assert.Equal(t, 2025, d.Year())

	// A date far in the past relative to asOf belongs to next year.
	asOf = time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	d, ok = resolveCalendarDate("Fri Jan 2", asOf)
	require.True(t, ok)
	assert.Equal(t, 2027, d.Year())

	// Nearby dates keep the current year.
	d, ok = resolveCalendarDate("Mon Dec 28", asOf)
	require.True(t, ok)
	assert.Equal(t, 2026, d.Year())

	_, ok = resolveCalendarDate("not a date", asOf)
	assert.False(t, ok)
}
