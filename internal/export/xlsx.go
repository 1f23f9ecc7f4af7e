package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/chargelog/internal/fileutil"
	"github.com/verte-zerg/chargelog/internal/loader"
	"github.com/verte-zerg/chargelog/internal/model"
)

// Sheet names in the exported workbook.
const (
	SummarySheet = "Summary"
	SamplesSheet = "Samples"
)

// ExportXLSX writes a workbook with a Summary sheet and a Samples sheet
// holding every row of log.
func ExportXLSX(path string, log *model.Log, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := writeSummarySheet(f, NewSummary(log, generated), bold); err != nil {
		return err
	}
	if _, err := f.NewSheet(SamplesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeSamplesSheet(f, log.Samples, bold); err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func writeSummarySheet(f *excelize.File, s Summary, bold int) error {
	rows := [][]interface{}{
		{"File", s.File},
		{"Generated", s.Generated},
		{"Port", s.Test.Port},
		{"Battery Type", s.Test.BatteryType},
		{"Mode", s.Test.Mode},
		{"Duration (s)", s.Test.DurationSeconds},
		{"Duration (h)", s.Test.DurationHours},
		{"Final Capacity (mAh)", s.Results.CapacityMah},
		{"Final Energy (Wh)", s.Results.EnergyWh},
		{"Min Voltage (V)", s.Voltage.Min},
		{"Max Voltage (V)", s.Voltage.Max},
		{"Avg Voltage (V)", s.Voltage.Average},
		{"Voltage Range (V)", s.Voltage.Range},
		{"Avg Current (A)", s.Current.Average},
		{"Data Points", s.DataQuality.DataPoints},
	}
	if rate := s.DataQuality.SamplesPerMinute; rate != nil {
		rows = append(rows, []interface{}{"Samples/Minute", *rate})
	} else {
		rows = append(rows, []interface{}{"Samples/Minute", "n/a"})
	}
	if h := s.Health; h != nil {
		rows = append(rows,
			[]interface{}{"Rated Capacity (mAh)", h.RatedCapacityMah},
			[]interface{}{"Health (%)", h.Percent},
			[]interface{}{"Health Status", h.Status},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	last := fmt.Sprintf("A%d", len(rows))
	if err := f.SetCellStyle(SummarySheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeSamplesSheet(f *excelize.File, samples []model.Sample, bold int) error {
	header := make([]interface{}, len(loader.Columns))
	for i, name := range loader.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(SamplesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write samples header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SamplesSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style samples header: %w", err)
	}

	for i, s := range samples {
		row := []interface{}{
			s.Timestamp,
			s.Port,
			s.Voltage,
			s.Current,
			s.Power,
			s.CapacityMah,
			s.EnergyWh,
			s.Mode,
			s.Battery,
			s.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SamplesSheet, cell, &row); err != nil {
			return fmt.Errorf("write sample %d: %w", i+1, err)
		}
	}
	return f.SetPanes(SamplesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
