package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dinebook/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservations"

var headers = []string{"Reservation", "Restaurant", "Date", "Time", "Guests", "Status", "Created"}

// ReservationsToXLSX writes the user's reservation history to an xlsx
// workbook and returns the file path.
func ReservationsToXLSX(dir string, reservations []*models.Reservation) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range reservations {
		row := i + 2
		values := []any{
			r.ID,
			r.RestaurantName,
			r.Date,
			r.Time,
			r.GuestCount,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "G", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_%s.xlsx", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}
	return filePath, nil
}
