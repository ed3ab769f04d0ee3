package readings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/sheets/v4"
)

var Header = []string{"Last Updated", "Sensor", "Raw", "Temperature"}

// MakeTSV writes the readings in a worksheet range as tab separated values. Rows without
// a sensor ID (blank or padding rows) are skipped and a header row in the range, if any,
// is replaced by the standard header.
func MakeTSV(f io.Writer, data *sheets.ValueRange) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	records := [][]string{}
	for _, row := range data.Values {
		if len(row) < 2 {
			continue
		}

		if id := clean(row[1]); id == "" || normalise(id) == "sensor" {
			continue
		}

		record := make([]string, len(Header))
		for i := range record {
			if i < len(row) {
				record[i] = clean(row[i])
			}
		}

		records = append(records, record)
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(Header)
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

func clean(v any) string {
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
