// Package report renders productivity score sheets for supervisors.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/store"
	"warepulse.io/warepulse/utils"
)

const sheetName = "Daily Scores"

var headers = []string{
	"Date", "Employee", "Code", "Items", "Points",
	"Clocked (min)", "Active (min)", "Idle (min)", "Efficiency",
}

// WriteDailyScores renders the score records for a date range as an XLSX
// sheet, one row per employee-day.
func WriteDailyScores(ctx context.Context, s *store.Store, start, end time.Time, employees []int32, w io.Writer) error {
	scores, err := s.ScoresForRange(ctx, start, end, employees)
	if err != nil {
		return err
	}

	ids := utils.Map(scores, func(sc models.DailyScore) int32 { return sc.EmployeeID })
	byID, err := s.EmployeesByID(ctx, ids)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, sc := range scores {
		name := fmt.Sprintf("employee %d", sc.EmployeeID)
		code := ""
		if emp, ok := byID[sc.EmployeeID]; ok {
			name = fmt.Sprintf("%s %s", emp.FirstName, emp.Surname)
			code = emp.Code
		}

		row := []interface{}{
			sc.Date.Format(utils.DateLayout),
			name,
			code,
			sc.ItemsProcessed,
			sc.PointsEarned,
			sc.ClockedMinutes,
			sc.ActiveMinutes,
			sc.IdleMinutes,
			sc.EfficiencyRate,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
