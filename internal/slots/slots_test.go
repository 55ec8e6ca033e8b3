package slots

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       []string
	}{
		{"end excluded", "09:00", "09:30", []string{"09:00"}},
		{"zero width", "09:00", "09:00", []string{}},
		{"inverted", "12:00", "09:00", []string{}},
		{"hour rollover", "09:45", "11:00", []string{"09:45", "10:15", "10:45"}},
		{"morning", "09:00", "12:00", []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}},
		{"postgres time text", "09:00:00", "10:00:00", []string{"09:00", "09:30"}},
		{"unpadded", "9:00", "10:00", []string{"09:00", "09:30"}},
		{"empty start", "", "10:00", []string{}},
		{"garbage", "nine", "ten", []string{}},
		{"out of range", "09:00", "24:00", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GenerateSlots(tc.start, tc.end))
		})
	}
}

func TestGenerateSlots_FullDayIsBounded(t *testing.T) {
	got := GenerateSlots("00:00", "23:59")
	require.Len(t, got, 48)
	assert.Equal(t, "00:00", got[0])
	assert.Equal(t, "23:30", got[47])
}

func TestGenerateSlots_CountAndLastBeforeEnd(t *testing.T) {
	for startMin := 0; startMin < minutesPerDay; startMin += 37 {
		for endMin := startMin + 1; endMin < minutesPerDay; endMin += 53 {
			start := fromMinutes(startMin).String()
			end := fromMinutes(endMin).String()
			got := GenerateSlots(start, end)

			span := endMin - startMin
			want := (span + DefaultStepMinutes - 1) / DefaultStepMinutes
			require.Len(t, got, want, "window %s-%s", start, end)
			assert.Less(t, got[len(got)-1], end, "window %s-%s", start, end)
		}
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	assert.Equal(t, GenerateSlots("08:15", "17:40"), GenerateSlots("08:15", "17:40"))
}

func TestGenerateSlotsStep(t *testing.T) {
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45"}, GenerateSlotsStep("09:00", "10:00", 15))
	assert.Equal(t, []string{"09:00"}, GenerateSlotsStep("09:00", "10:00", 90))
	assert.Empty(t, GenerateSlotsStep("09:00", "10:00", 0))
	assert.Empty(t, GenerateSlotsStep("09:00", "10:00", -30))
}

func TestFilterAvailable(t *testing.T) {
	all := GenerateSlots("09:00", "12:00")

	t.Run("empty booked set keeps everything", func(t *testing.T) {
		assert.Equal(t, all, FilterAvailable(all, NewBookedSet()))
		assert.Equal(t, all, FilterAvailable(all, nil))
	})

	t.Run("booked equal to slots leaves nothing", func(t *testing.T) {
		got := FilterAvailable(all, NewBookedSet(all...))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("morning with two bookings", func(t *testing.T) {
		got := FilterAvailable(all, NewBookedSet("10:00", "10:30"))
		assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, got)
	})

	t.Run("booked times are normalized", func(t *testing.T) {
		got := FilterAvailable(all, NewBookedSet("9:00", "11:30:00"))
		assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00"}, got)
	})

	t.Run("empty slots", func(t *testing.T) {
		assert.Empty(t, FilterAvailable(nil, NewBookedSet("10:00")))
	})
}

func TestBookedSet_Block(t *testing.T) {
	all := GenerateSlots("09:00", "12:00")
	booked := NewBookedSet()

	// 10:15-11:00 overlaps the 10:00 and 10:30 slots.
	booked.Block(all, DefaultStepMinutes, Window{
		Start: TimeOfDay{Hour: 10, Minute: 15},
		End:   TimeOfDay{Hour: 11},
	})
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, FilterAvailable(all, booked))

	// Touching the boundary is not an overlap.
	edge := NewBookedSet()
	edge.Block(all, DefaultStepMinutes, Window{Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 9}})
	assert.Empty(t, edge)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08:30", "16:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30}, w.Start)
	assert.Equal(t, TimeOfDay{Hour: 16}, w.End)

	_, err = ParseWindow("16:00", "08:30")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ParseWindow("16:00", "")
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = ParseWindow("25:00", "26:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseTimeOfDay(t *testing.T) {
	for _, in := range []string{"07:05", "7:05", " 07:05 ", "07:05:59"} {
		tod, err := ParseTimeOfDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, "07:05", tod.String(), in)
	}
	for _, in := range []string{"", "0705", "07", "07:60", "-1:00", "07:05:00:00", "ab:cd",
		"09:00:zz", "09:00:61", "+9:00", "-0:00", "09:+5", "009:00", "9:5"} {
		_, err := ParseTimeOfDay(in)
		assert.ErrorIs(t, err, ErrInvalidTime, in)
	}
}

func TestGenerateSlots_RejectsMalformedParts(t *testing.T) {
	for _, start := range []string{"09:00:zz", "09:00:61", "+9:00"} {
		got := GenerateSlots(start, "10:00")
		assert.NotNil(t, got, start)
		assert.Empty(t, got, start)
	}
	assert.Equal(t, []string{"09:00", "09:30"}, GenerateSlots("09:00:00", "10:00:00"))
}

func TestParseDays(t *testing.T) {
	set, err := ParseDays("Monday, Wednesday, Friday")
	require.NoError(t, err)
	assert.True(t, set.Has(time.Monday))
	assert.True(t, set.Has(time.Friday))
	assert.False(t, set.Has(time.Tuesday))

	set, err = ParseDays("Mon - Fri")
	require.NoError(t, err)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		assert.True(t, set.Has(wd), wd.String())
	}
	assert.False(t, set.Has(time.Saturday))
	assert.False(t, set.Has(time.Sunday))

	set, err = ParseDays("sat-mon")
	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.True(t, set.Has(time.Sunday))

	set, err = ParseDays("")
	require.NoError(t, err)
	assert.True(t, set.Has(time.Thursday))

	_, err = ParseDays("Mondays")
	assert.Error(t, err)
}

func ExampleFilterAvailable() {
	booked := NewBookedSet("10:00", "10:30")
	fmt.Println(FilterAvailable(GenerateSlots("09:00", "12:00"), booked))
	// Output: [09:00 09:30 11:00 11:30]
}
