package readings

import (
	"fmt"

	"github.com/huesheets/hue-sheets/hue"
)

// Row is a single temperature reading as appended to the worksheet. Scaled is the raw
// gateway value (hundredths of a degree Celsius) in degrees.
type Row struct {
	LastUpdated string
	UniqueID    string
	Raw         int
	Scaled      float64
}

func NewRow(sensor hue.Sensor) Row {
	return Row{
		LastUpdated: sensor.State.LastUpdated,
		UniqueID:    sensor.UniqueID,
		Raw:         sensor.State.Temperature,
		Scaled:      float64(sensor.State.Temperature) / 100,
	}
}

// Values returns the row in worksheet column order.
func (r Row) Values() []any {
	return []any{r.LastUpdated, r.UniqueID, r.Raw, r.Scaled}
}

func (r Row) String() string {
	return fmt.Sprintf("Temperature of %v at %v for sensor %v", r.Scaled, r.LastUpdated, r.UniqueID)
}

// MakeRows returns a row for each sensor of type 'filter', in gateway response order.
// Sensors of other types are skipped without being decoded.
func MakeRows(sensors *hue.Sensors, filter string) ([]Row, error) {
	rows := []Row{}

	if sensors == nil {
		return rows, nil
	}

	for p := sensors.Oldest(); p != nil; p = p.Next() {
		if p.Value.Type != filter {
			continue
		}

		sensor, err := p.Value.Sensor()
		if err != nil {
			return nil, fmt.Errorf("invalid %v sensor %v (%w)", filter, p.Key, err)
		}

		rows = append(rows, NewRow(sensor))
	}

	return rows, nil
}

// Values converts the rows to the [][]any layout of a sheets.ValueRange.
func Values(rows []Row) [][]any {
	values := make([][]any, 0, len(rows))

	for _, row := range rows {
		values = append(values, row.Values())
	}

	return values
}
