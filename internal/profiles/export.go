package profiles

import (
	"fmt"

	"github.com/dialogamente/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const historySheet = "Histórico"

var exportHeaders = []string{
	"Data", "Perfil", "Visual (%)", "Auditivo (%)", "Cinestésico (%)",
	"Pontuação", "Respostas", "AI Coach",
}

// BuildWorkbook renders a result history as an XLSX file.
func BuildWorkbook(tests []models.TestResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(historySheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIndex, t := range tests {
		aiCoach := "Não"
		if t.AIInsightsUsed {
			aiCoach = "Sim"
		}
		row := []interface{}{
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.Dominant.DisplayName(),
			t.Scores.Visual,
			t.Scores.Auditory,
			t.Scores.Kinesthetic,
			t.TotalScore,
			t.AnsweredCount,
			aiCoach,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowIndex+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
