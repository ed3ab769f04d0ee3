package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/api/sheets/v4"

	"github.com/huesheets/hue-sheets/hue"
	"github.com/huesheets/hue-sheets/readings"
)

const (
	INSERT_ROWS  = "INSERT_ROWS"
	USER_ENTERED = "USER_ENTERED"
)

type Gateway interface {
	Sensors(ctx context.Context) (*hue.Sensors, error)
}

// Collector reads the sensors from a gateway and appends a row for each sensor of
// type Filter to the Range of a Google Sheets spreadsheet.
type Collector struct {
	Gateway     Gateway
	Sheets      *sheets.Service
	Spreadsheet string
	Range       string
	Filter      string
	DryRun      bool
	Debug       bool
}

// Collect makes a single pass: one gateway read and one append. The append is made even
// if no sensors match, with an empty value list. Nothing is retried.
func (c *Collector) Collect(ctx context.Context) (*sheets.AppendValuesResponse, error) {
	if !c.DryRun && c.Sheets == nil {
		return nil, fmt.Errorf("no Google Sheets client")
	}

	sensors, err := c.Gateway.Sensors(ctx)
	if err != nil {
		return nil, err
	}

	if c.Debug {
		debugf("Retrieved %v sensors", sensors.Len())
	}

	rows, err := readings.MakeRows(sensors, c.Filter)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		infof("%v", row)
	}

	if c.DryRun {
		infof("Dry run - %v rows not appended to %v", len(rows), c.Range)
		return nil, nil
	}

	if c.Debug {
		debugf("Spreadsheet - ID:%s  range:%s  rows:%v", c.Spreadsheet, c.Range, len(rows))
	}

	values := sheets.ValueRange{
		Values: readings.Values(rows),
	}

	response, err := c.Sheets.Spreadsheets.Values.Append(c.Spreadsheet, c.Range, &values).
		InsertDataOption(INSERT_ROWS).
		ValueInputOption(USER_ENTERED).
		Context(ctx).
		Do()
	if err != nil {
		warnf("%v", err)
		return nil, fmt.Errorf("error appending readings to spreadsheet (%w)", err)
	}

	if b, err := json.MarshalIndent(response, "", "  "); err != nil {
		warnf("%v", err)
	} else {
		infof("%s", b)
	}

	return response, nil
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
