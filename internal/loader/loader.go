// Package loader reads charger CSV logs into samples.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/chargelog/internal/model"
)

// Column names written by the charger in the header row.
const (
	ColTimestamp = "Timestamp"
	ColPort      = "Port"
	ColVoltage   = "Voltage(V)"
	ColCurrent   = "Current(A)"
	ColPower     = "Power(W)"
	ColMah       = "mAh"
	ColWh        = "Wh"
	ColMode      = "Mode"
	ColBattery   = "Battery"
	ColStatus    = "Status"
)

// Columns lists the header in the order the charger writes it.
var Columns = []string{
	ColTimestamp, ColPort, ColVoltage, ColCurrent, ColPower,
	ColMah, ColWh, ColMode, ColBattery, ColStatus,
}

// ErrNoValidRows is returned when a log contains no parseable rows.
var ErrNoValidRows = errors.New("no valid data found in CSV file")

// RowError describes a row that was skipped.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// LoadFile reads the CSV log at path.
func LoadFile(path string, log logrus.FieldLogger) ([]model.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()
	return Read(file, log)
}

// Read parses samples from r in file order. Rows that fail conversion or lack
// a field are logged as warnings and skipped.
func Read(r io.Reader, log logrus.FieldLogger) ([]model.Sample, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoValidRows
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := headerIndex(header)

	var samples []model.Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("failed to read log: %w", err)
			}
			warnSkipped(log, &RowError{Line: perr.Line, Err: perr.Err})
			continue
		}
		line, _ := reader.FieldPos(0)
		sample, err := parseRow(index, record)
		if err != nil {
			warnSkipped(log, &RowError{Line: line, Err: err})
			continue
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, ErrNoValidRows
	}
	return samples, nil
}

func warnSkipped(log logrus.FieldLogger, rerr *RowError) {
	log.WithField("line", rerr.Line).Warnf("Skipping invalid row: %v", rerr.Err)
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
	}
	return index
}

type rowReader struct {
	index  map[string]int
	record []string
	err    error
}

func (rr *rowReader) field(name string) string {
	if rr.err != nil {
		return ""
	}
	i, ok := rr.index[name]
	if !ok {
		rr.err = fmt.Errorf("missing column %q", name)
		return ""
	}
	if i >= len(rr.record) {
		rr.err = fmt.Errorf("missing field %q", name)
		return ""
	}
	return rr.record[i]
}

func (rr *rowReader) intField(name string) int64 {
	raw := rr.field(name)
	if rr.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		rr.err = fmt.Errorf("column %q: invalid integer %q", name, raw)
		return 0
	}
	return v
}

func (rr *rowReader) floatField(name string) float64 {
	raw := rr.field(name)
	if rr.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		rr.err = fmt.Errorf("column %q: invalid number %q", name, raw)
		return 0
	}
	return v
}

func parseRow(index map[string]int, record []string) (model.Sample, error) {
	rr := &rowReader{index: index, record: record}
	sample := model.Sample{
		Timestamp:   rr.intField(ColTimestamp),
		Port:        int(rr.intField(ColPort)),
		Voltage:     rr.floatField(ColVoltage),
		Current:     rr.floatField(ColCurrent),
		Power:       rr.floatField(ColPower),
		CapacityMah: rr.floatField(ColMah),
		EnergyWh:    rr.floatField(ColWh),
		Mode:        rr.field(ColMode),
		Battery:     rr.field(ColBattery),
		Status:      rr.field(ColStatus),
	}
	if rr.err != nil {
		return model.Sample{}, rr.err
	}
	return sample, nil
}
