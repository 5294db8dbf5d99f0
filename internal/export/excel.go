// Package export renders month reservation reports as Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"labreserve/internal/model"
	"labreserve/internal/schedule"
)

// Workbook wraps an excelize file with a row cursor per sheet.
type Workbook struct {
	file       *excelize.File
	sheet      string
	currentRow int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// AddSheet adds a sheet and makes it current. The first call renames the
// default sheet instead of creating a second one.
func (w *Workbook) AddSheet(name string) error {
	if len(name) > 31 {
		name = name[:31] // Excel sheet name limit
	}
	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	w.sheet = name
	w.currentRow = 1
	return nil
}

// WriteHeader writes a bold header row to the current sheet.
func (w *Workbook) WriteHeader(columns []string) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.sheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

// WriteRow writes a data row to the current sheet.
func (w *Workbook) WriteRow(row []interface{}) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *Workbook) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// Close releases resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// MonthReport builds a two-sheet workbook for a month: a summary sheet
// with the grid's aggregates and a listing of the confirmed reservations.
func MonthReport(grid *schedule.MonthGrid, reservations []model.Reservation) (*Workbook, error) {
	w := NewWorkbook()

	if err := w.AddSheet("Resumen"); err != nil {
		return nil, err
	}
	if err := w.WriteHeader([]string{"Indicador", "Valor"}); err != nil {
		return nil, err
	}
	summary := [][]interface{}{
		{"Mes", fmt.Sprintf("%s %d", grid.MonthName, grid.Year)},
		{"Días totales", grid.TotalDays},
		{"Días laborables", grid.WorkingDays},
		{"Reservas confirmadas", grid.TotalReservations},
		{"Horas reservadas", grid.TotalHours},
		{"Grupos distintos", grid.UniqueGroups},
		{"Profesores distintos", grid.UniqueInstructors},
		{"Días con reservas", grid.DaysWithReservations},
		{"Reservas por día laborable", grid.ReservationsPerWorkingDay},
	}
	for _, row := range summary {
		if err := w.WriteRow(row); err != nil {
			return nil, err
		}
	}

	if err := w.AddSheet("Reservas"); err != nil {
		return nil, err
	}
	header := []string{"ID", "Fecha", "Horario", "Duración", "Grupo", "Materia",
		"Profesor", "Alumnos", "Responsable", "Observaciones"}
	if err := w.WriteHeader(header); err != nil {
		return nil, err
	}
	for i := range reservations {
		r := &reservations[i]
		row := []interface{}{
			r.ID, r.Date, r.TimeRange(), r.Duration, r.Group, r.Subject,
			r.Instructor, r.StudentCount, r.Responsible, r.Notes,
		}
		if err := w.WriteRow(row); err != nil {
			return nil, err
		}
	}

	return w, nil
}
