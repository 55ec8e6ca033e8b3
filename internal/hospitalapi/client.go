// Package hospitalapi reads doctors and appointments from the hospital
// administration REST API that owns them.
package hospitalapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"hospital-slots/internal/domain"
)

// ErrNotFound is returned when the API answers 404 for a route other than a
// single doctor lookup.
var ErrNotFound = errors.New("hospital api: not found")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (c *Client) GetDoctor(ctx context.Context, id int64) (domain.Doctor, error) {
	var d domain.Doctor
	body, err := c.get(ctx, "/api/doctors/"+strconv.FormatInt(id, 10), nil)
	if errors.Is(err, ErrNotFound) {
		return d, domain.ErrDoctorNotFound
	}
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(body, &d); err != nil {
		return d, fmt.Errorf("decode doctor %d: %w", id, err)
	}
	if d.ID == 0 {
		d.ID = id
	}
	return d, nil
}

// ListAppointments returns the doctor's appointments on date. The API does
// not always honor its filters, so results are filtered again here.
func (c *Client) ListAppointments(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error) {
	day := date.Format(domain.DateLayout)
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	q.Set("date", day)

	body, err := c.get(ctx, "/api/appointments", q)
	if err != nil {
		return nil, fmt.Errorf("list appointments for doctor %d: %w", doctorID, err)
	}
	all, err := decodeAppointments(body)
	if err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]domain.Appointment, 0, len(all))
	for _, a := range all {
		if a.DoctorID != 0 && a.DoctorID != doctorID {
			continue
		}
		if a.AppointmentDate != "" && !strings.HasPrefix(a.AppointmentDate, day) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Ping reports whether the API answers at all. Any status below 500 counts
// as reachable, since the root route is not part of the API contract.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hospital api ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("hospital api ping: status %d", resp.StatusCode)
	}
	return nil
}

// decodeAppointments accepts either a bare array or {"appointments": [...]}.
func decodeAppointments(body []byte) ([]domain.Appointment, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	if body[0] == '[' {
		var list []domain.Appointment
		err := json.Unmarshal(body, &list)
		return list, err
	}
	var wrapped struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	err := json.Unmarshal(body, &wrapped)
	return wrapped.Appointments, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hospital api %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	default:
		return nil, fmt.Errorf("hospital api %s: unexpected status %d", path, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
