package export

import (
	"testing"
	"time"

	"dinebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReservationsToXLSX(t *testing.T) {
	reservations := []*models.Reservation{
		{
			ID:             "res-1",
			RestaurantName: "La Petite",
			Date:           "2026-09-15",
			Time:           "19:00",
			GuestCount:     4,
			Status:         models.StatusConfirmed,
			CreatedAt:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:             "res-2",
			RestaurantName: "Thai Garden",
			Date:           "2026-09-20",
			Time:           "18:30",
			GuestCount:     2,
			Status:         models.StatusPending,
			CreatedAt:      time.Date(2026, 9, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	path, err := ReservationsToXLSX(t.TempDir(), reservations)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two data rows")

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "res-1", rows[1][0])
	assert.Equal(t, "La Petite", rows[1][1])
	assert.Equal(t, "confirmed", rows[1][5])
	assert.Equal(t, "Thai Garden", rows[2][1])
}

func TestReservationsToXLSXEmptyList(t *testing.T) {
	path, err := ReservationsToXLSX(t.TempDir(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
