package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf(t *testing.T) {
	cases := []struct {
		slot   string
		period Period
	}{
		{"09:00", PeriodMorning},
		{"11:30", PeriodMorning},
		{"06:00", PeriodMorning},
		{"12:00", PeriodAfternoon},
		{"13:00", PeriodAfternoon},
		{"16:30", PeriodAfternoon},
		{"17:00", PeriodEvening},
		{"19:30", PeriodEvening},
		{"23:00", PeriodEvening},
		{"05:00", PeriodEvening},
		{"00:30", PeriodEvening},
	}
	for _, tc := range cases {
		period, err := PeriodOf(tc.slot)
		require.NoError(t, err, tc.slot)
		assert.Equal(t, tc.period, period, tc.slot)
	}
}

func TestPeriodOfRejectsMalformedSlots(t *testing.T) {
	for _, slot := range []string{"", "0900", "abc", "ab:00", "25:00", "-1:00"} {
		_, err := PeriodOf(slot)
		assert.ErrorIs(t, err, ErrBadSlot, slot)
	}
}

func TestSlotTemplateShape(t *testing.T) {
	assert.Len(t, slotTemplate[PeriodMorning], 6)
	assert.Len(t, slotTemplate[PeriodAfternoon], 8)
	assert.Len(t, slotTemplate[PeriodEvening], 6)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slotTemplate[PeriodMorning])
	assert.Equal(t, "13:00", slotTemplate[PeriodAfternoon][0])
	assert.Equal(t, "19:30", slotTemplate[PeriodEvening][5])

	// Every template slot classifies into its own period.
	for period, slots := range slotTemplate {
		for _, slot := range slots {
			got, err := PeriodOf(slot)
			require.NoError(t, err)
			assert.Equal(t, period, got, slot)
		}
	}
}

func TestTemplateHasSlot(t *testing.T) {
	assert.True(t, templateHasSlot("09:00"))
	assert.True(t, templateHasSlot("16:30"))
	assert.False(t, templateHasSlot("12:00"), "lunch break is not bookable")
	assert.False(t, templateHasSlot("09:15"))
	assert.False(t, templateHasSlot("20:00"))
}
