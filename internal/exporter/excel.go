// Package exporter projects stored registrations into spreadsheet form.
package exporter

import (
	"bytes"
	"fmt"
	"strconv"

	"festreg/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Registrations"

// columns is the fixed export column order.
var columns = []string{
	"Registration ID", "Event", "Team Name", "Team Leader", "Email", "Mobile",
	"Gender", "College", "Course", "Year", "Roll No", "Aadhar", "Team Size",
}

// ExcelExporter builds xlsx workbooks of all registrations. With a non-empty
// snapshotPath, Refresh also rewrites that file on disk.
type ExcelExporter struct {
	snapshotPath string
}

// NewExcelExporter creates an ExcelExporter. Pass an empty snapshotPath to
// disable the on-disk snapshot.
func NewExcelExporter(snapshotPath string) *ExcelExporter {
	return &ExcelExporter{snapshotPath: snapshotPath}
}

// Workbook renders the registrations into an in-memory xlsx file.
func (e *ExcelExporter) Workbook(regs []models.Registration) (*bytes.Buffer, error) {
	f, err := build(regs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

// Refresh rewrites the on-disk snapshot, if one is configured.
func (e *ExcelExporter) Refresh(regs []models.Registration) error {
	if e.snapshotPath == "" {
		return nil
	}
	f, err := build(regs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(e.snapshotPath); err != nil {
		return fmt.Errorf("failed to write export snapshot: %w", err)
	}
	return nil
}

func build(regs []models.Registration) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, reg := range regs {
		row := []interface{}{
			reg.RegistrationID, reg.Event, reg.TeamName, reg.TeamLeaderName,
			reg.Email, reg.Mobile, reg.Gender, reg.College, reg.Course,
			reg.Year, reg.RollNo, reg.Aadhar, strconv.Itoa(reg.TeamSize),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to compute cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
