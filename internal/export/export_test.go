package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
)

var generated = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func testLog(battery string) *model.Log {
	return stats.NewLog("logs/battery_log_port1.csv", []model.Sample{
		{Timestamp: 0, Voltage: 4.2, Current: 1, CapacityMah: 0, Mode: "Discharging", Battery: battery, Status: "Active"},
		{Timestamp: 3600, Voltage: 3.7, Current: 1, CapacityMah: 1200, EnergyWh: 4.74, Mode: "Discharging", Battery: battery, Status: "Complete"},
	})
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(testLog("Li-ion"), generated)
	if s.File != "battery_log_port1.csv" || s.Generated != "2024-03-09 14:05:00" {
		t.Fatalf("unexpected header fields: %+v", s)
	}
	if s.Test.Port != 1 || s.Test.DurationHours != 1 {
		t.Fatalf("unexpected test info: %+v", s.Test)
	}
	if s.Voltage.Range != 0.5 || s.Voltage.Average != 3.95 {
		t.Fatalf("unexpected voltage stats: %+v", s.Voltage)
	}
	if s.DataQuality.SamplesPerMinute == nil || *s.DataQuality.SamplesPerMinute != 0.03 {
		t.Fatalf("unexpected sample rate: %v", s.DataQuality.SamplesPerMinute)
	}
	if s.Health == nil || s.Health.Status != "POOR" || s.Health.Percent != 48 {
		t.Fatalf("unexpected health: %+v", s.Health)
	}
}

func TestNewSummaryWithoutHealthOrRate(t *testing.T) {
	log := stats.NewLog("one.csv", []model.Sample{{Timestamp: 5, Voltage: 3.3, Battery: "LiFePO4"}})
	s := NewSummary(log, generated)
	if s.Health != nil {
		t.Fatalf("expected no health for LiFePO4")
	}
	if s.DataQuality.SamplesPerMinute != nil {
		t.Fatalf("expected undefined sample rate for zero duration")
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, testLog("Li-ion"), generated); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"battery_type: Li-ion", "capacity_mah: 1200", "status: POOR", "data_points: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml missing %q:\n%s", want, out)
		}
	}

	var decoded Summary
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if decoded.Results.CapacityMah != 1200 || decoded.Health == nil {
		t.Fatalf("unexpected decoded summary: %+v", decoded)
	}
}

func TestWriteYAMLOmitsHealth(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, testLog("LiPo"), generated); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	if strings.Contains(buf.String(), "health:") {
		t.Fatalf("expected no health section:\n%s", buf.String())
	}
}

func TestExportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_log_port1_summary.yaml")
	if err := ExportYAML(path, testLog("Li-ion"), generated); err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if !strings.HasPrefix(string(data), "file: battery_log_port1.csv\n") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	if err := ExportXLSX(path, testLog("Li-ion"), generated); err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SummarySheet || sheets[1] != SamplesSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows(SamplesSheet)
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "Voltage(V)" || rows[2][9] != "Complete" {
		t.Fatalf("unexpected sample rows: %v", rows)
	}

	status, err := f.GetCellValue(SummarySheet, "B19")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if status != "POOR" {
		t.Fatalf("expected health status in summary, got %q", status)
	}
}
