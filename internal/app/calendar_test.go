package app

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"hospital-slots/internal/slots"
)

func timed(start, end string) *calendar.Event {
	return &calendar.Event{
		Status: "confirmed",
		Start:  &calendar.EventDateTime{DateTime: start},
		End:    &calendar.EventDateTime{DateTime: end},
	}
}

func TestBusyFromEvents(t *testing.T) {
	cancelled := timed("2026-10-19T09:00:00+02:00", "2026-10-19T10:00:00+02:00")
	cancelled.Status = "cancelled"
	free := timed("2026-10-19T13:00:00+02:00", "2026-10-19T14:00:00+02:00")
	free.Transparency = "transparent"
	allDay := &calendar.Event{
		Start: &calendar.EventDateTime{Date: "2026-10-19"},
		End:   &calendar.EventDateTime{Date: "2026-10-20"},
	}

	items := []*calendar.Event{
		timed("2026-10-19T10:15:00+02:00", "2026-10-19T11:00:00+02:00"),
		cancelled,
		free,
		allDay,
		nil,
		// starts the evening before, ends at 08:30
		timed("2026-10-18T22:00:00+02:00", "2026-10-19T08:30:00+02:00"),
		// runs past midnight
		timed("2026-10-19T23:00:00+02:00", "2026-10-20T01:00:00+02:00"),
		// another day entirely
		timed("2026-10-20T09:00:00+02:00", "2026-10-20T10:00:00+02:00"),
		// zero length
		timed("2026-10-19T15:00:00Z", "2026-10-19T15:00:00Z"),
	}

	got := busyFromEvents(items, monday)
	require.Len(t, got, 3)
	assert.Equal(t, slots.Window{Start: slots.TimeOfDay{Hour: 10, Minute: 15}, End: slots.TimeOfDay{Hour: 11}}, got[0])
	assert.Equal(t, slots.Window{Start: slots.TimeOfDay{}, End: slots.TimeOfDay{Hour: 8, Minute: 30}}, got[1])
	assert.Equal(t, slots.Window{Start: slots.TimeOfDay{Hour: 23}, End: slots.TimeOfDay{Hour: 24}}, got[2])
}

func TestNewGoogleCalendar(t *testing.T) {
	assert.Nil(t, NewGoogleCalendar("", "secret", "http://localhost/cb", nil))

	g := NewGoogleCalendar("id", "secret", "http://localhost/cb", nil)
	require.NotNil(t, g)
	assert.Equal(t, []string{calendar.CalendarReadonlyScope}, g.Config.Scopes)
}

func TestGoogleCalendarHandlers_Validation(t *testing.T) {
	g := NewGoogleCalendar("id", "secret", "http://localhost/cb", nil)
	r := gin.New()
	r.GET("/auth", g.AuthHandler)
	r.GET("/oauth2callback", g.OAuth2CallbackHandler)
	r.GET("/busy", g.BusyHandler)

	rec := doGet(r, "/auth?doctor_id=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts.google.com")
	assert.Contains(t, rec.Body.String(), "doctor_7_")

	assert.Equal(t, http.StatusBadRequest, doGet(r, "/oauth2callback", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doGet(r, "/busy?date=2026-10-19", nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		doGet(r, "/busy?date=nope", map[string]string{headerGoogleToken: "{}"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		doGet(r, "/busy?date=2026-10-19", map[string]string{headerGoogleToken: "not json"}).Code)
}
