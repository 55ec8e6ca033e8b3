package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"hospital-slots/internal/domain"
	"hospital-slots/internal/slots"
)

var ErrInvalidCalendarToken = errors.New("invalid calendar token")

// GoogleCalendar reads a doctor's Google Calendar to find busy times that
// are not recorded as appointments.
type GoogleCalendar struct {
	Config *oauth2.Config
	Log    *zap.Logger
}

// NewGoogleCalendar returns nil when OAuth2 credentials are not configured.
func NewGoogleCalendar(clientID, clientSecret, redirectURL string, log *zap.Logger) *GoogleCalendar {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GoogleCalendar{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		Log: log,
	}
}

func (g *GoogleCalendar) service(ctx context.Context, tokenJSON string) (*calendar.Service, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendarToken, err)
	}
	client := g.Config.Client(ctx, &token)
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

// Busy lists timed, opaque events on date as wall-clock windows.
func (g *GoogleCalendar) Busy(ctx context.Context, tokenJSON, calendarID string, date time.Time) ([]slots.Window, error) {
	srv, err := g.service(ctx, tokenJSON)
	if err != nil {
		return nil, err
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	// widen by a day on both sides; events are clipped to date's wall clock below
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	events, err := srv.Events.List(calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(day.AddDate(0, 0, -1).Format(time.RFC3339)).
		TimeMax(day.AddDate(0, 0, 2).Format(time.RFC3339)).
		MaxResults(250).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return busyFromEvents(events.Items, date), nil
}

// busyFromEvents keeps timed events that are not cancelled or marked free,
// clipped to the wall-clock day of date in each event's own offset.
// All-day events are skipped.
func busyFromEvents(items []*calendar.Event, date time.Time) []slots.Window {
	want := date.Format(domain.DateLayout)
	var out []slots.Window
	for _, item := range items {
		if item == nil || item.Start == nil || item.End == nil {
			continue
		}
		if item.Status == "cancelled" || item.Transparency == "transparent" {
			continue
		}
		if item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil || !end.After(start) {
			continue
		}
		end = end.In(start.Location())

		dayStart, err := time.ParseInLocation(domain.DateLayout, want, start.Location())
		if err != nil {
			continue
		}
		dayEnd := dayStart.AddDate(0, 0, 1)
		if !start.Before(dayEnd) || !end.After(dayStart) {
			continue
		}
		if start.Before(dayStart) {
			start = dayStart
		}
		w := slots.Window{Start: slots.TimeOfDay{Hour: start.Hour(), Minute: start.Minute()}}
		if end.Before(dayEnd) {
			w.End = slots.TimeOfDay{Hour: end.Hour(), Minute: end.Minute()}
		} else {
			w.End = slots.TimeOfDay{Hour: 24}
		}
		out = append(out, w)
	}
	return out
}

// GET /api/calendar/auth?doctor_id=
func (g *GoogleCalendar) AuthHandler(c *gin.Context) {
	state := fmt.Sprintf("doctor_%s_%s", c.Query("doctor_id"), uuid.NewString())
	url := g.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{
		"auth_url": url,
		"state":    state,
	})
}

// GET /oauth2callback
func (g *GoogleCalendar) OAuth2CallbackHandler(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	token, err := g.Config.Exchange(c.Request.Context(), code)
	if err != nil {
		g.Log.Warn("oauth2 code exchange failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}

	// The booking UI keeps the token and sends it back in X-Google-Token.
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Authorization successful",
		"state":   c.Query("state"),
		"token":   string(tokenJSON),
	})
}

type busyWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GET /api/calendar/busy?date=YYYY-MM-DD&calendar_id=primary
func (g *GoogleCalendar) BusyHandler(c *gin.Context) {
	tokenStr := c.GetHeader(headerGoogleToken)
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return
	}
	date, err := ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}

	windows, err := g.Busy(c.Request.Context(), tokenStr, c.DefaultQuery("calendar_id", "primary"), date)
	if errors.Is(err, ErrInvalidCalendarToken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token format"})
		return
	}
	if err != nil {
		g.Log.Warn("calendar busy lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read calendar"})
		return
	}

	out := make([]busyWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, busyWindow{Start: w.Start.String(), End: w.End.String()})
	}
	c.JSON(http.StatusOK, gin.H{
		"busy":  out,
		"count": len(out),
	})
}
