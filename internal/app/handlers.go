package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-slots/internal/domain"
	"hospital-slots/internal/slots"
)

const headerGoogleToken = "X-Google-Token"

func parseDoctorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return 0, false
	}
	return id, true
}

// sourceError maps doctor/appointment source failures to responses.
func (a *App) sourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDoctorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		a.logger().Error("upstream rejected credentials", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream rejected credentials"})
	default:
		a.logger().Error("source failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load schedule data"})
	}
}

// GET /api/doctors/:id/slots?date=YYYY-MM-DD
func (a *App) GetDoctorSlotsHandler(c *gin.Context) {
	doctorID, ok := parseDoctorID(c)
	if !ok {
		return
	}
	date, err := ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	ctx := c.Request.Context()

	doctor, err := a.Doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		a.sourceError(c, err)
		return
	}
	if doctor.ID == 0 {
		doctor.ID = doctorID
	}

	var busy []slots.Window
	if token := c.GetHeader(headerGoogleToken); token != "" && a.Calendar != nil {
		busy, err = a.Calendar.Busy(ctx, token, c.DefaultQuery("calendar_id", "primary"), date)
		if errors.Is(err, ErrInvalidCalendarToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid X-Google-Token"})
			return
		}
		if err != nil {
			a.logger().Warn("calendar busy lookup failed", zap.Int64("doctor_id", doctorID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read calendar"})
			return
		}
	}

	result, err := a.SlotsForDoctor(ctx, doctor, date, busy)
	if err != nil {
		a.sourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type availabilityResponse struct {
	DoctorID  int64    `json:"doctor_id"`
	Start     string   `json:"available_time_start"`
	End       string   `json:"available_time_end"`
	Days      string   `json:"available_days"`
	Weekdays  []string `json:"weekdays"`
	Status    string   `json:"status"`
	StepMins  int      `json:"slot_length_minutes"`
	SlotCount int      `json:"slots_per_day"`
}

// GET /api/doctors/:id/availability
func (a *App) GetDoctorAvailabilityHandler(c *gin.Context) {
	doctorID, ok := parseDoctorID(c)
	if !ok {
		return
	}
	d, err := a.Doctors.GetDoctor(c.Request.Context(), doctorID)
	if err != nil {
		a.sourceError(c, err)
		return
	}

	resp := availabilityResponse{
		DoctorID: d.ID,
		Start:    d.AvailableTimeStart,
		End:      d.AvailableTimeEnd,
		Days:     d.AvailableDays,
		Weekdays: []string{},
		Status:   d.Status,
		StepMins: slots.DefaultStepMinutes,
	}
	days, err := slots.ParseDays(d.AvailableDays)
	if err != nil {
		// same reading as slot generation: unreadable means every day
		days = nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if days.Has(wd) {
			resp.Weekdays = append(resp.Weekdays, wd.String())
		}
	}
	resp.SlotCount = len(slots.GenerateSlots(d.AvailableTimeStart, d.AvailableTimeEnd))
	c.JSON(http.StatusOK, resp)
}

type listAppointmentsQuery struct {
	DoctorID int64  `form:"doctor_id" binding:"required,min=1"`
	Date     string `form:"date" binding:"required"`
}

// GET /api/appointments?doctor_id=&date=
func (a *App) ListAppointmentsHandler(c *gin.Context) {
	var q listAppointmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor_id and date required"})
		return
	}
	date, err := ParseDate(q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	list, err := a.Appointments.ListAppointments(c.Request.Context(), q.DoctorID, date)
	if err != nil {
		a.sourceError(c, err)
		return
	}
	if list == nil {
		list = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/slots?start=HH:MM&end=HH:MM&booked=HH:MM,HH:MM&strict=true
// Computes slots for an explicit window without touching any source.
func (a *App) PreviewSlotsHandler(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	strict, _ := strconv.ParseBool(c.DefaultQuery("strict", "false"))
	if strict {
		if _, err := slots.ParseWindow(start, end); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	booked := slots.NewBookedSet()
	for _, b := range strings.Split(c.Query("booked"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			booked.Add(b)
		}
	}
	available := slots.FilterAvailable(slots.GenerateSlots(start, end), booked)
	c.JSON(http.StatusOK, gin.H{"slots": available, "count": len(available)})
}

// GET /healthz
func (a *App) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, check := range a.Checks {
		if err := check(ctx); err != nil {
			a.logger().Warn("health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	c.JSON(status, gin.H{"ok": status == http.StatusOK, "checks": checks})
}
