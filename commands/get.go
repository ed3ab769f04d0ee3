package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huesheets/hue-sheets/readings"
)

var GetCmd = Get{
	area: "",
	file: time.Now().Format("readings-2006-01-02T150405.tsv"),
}

type Get struct {
	command
	area string
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the recorded readings from the Google Sheets worksheet and stores them to a local file"
}

func (cmd *Get) Usage() string {
	return "[--range <range>] [--file <file>]"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get [--range <range>] [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the recorded temperature readings from a Google Sheets worksheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    hue-sheets --debug get --range "Readings!A2:D" --file "readings.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("get", flag.ExitOnError)

	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Readings!A2:D'. Defaults to the configured range")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to 'readings-<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	if err := cmd.load(args...); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	spreadsheet, err := cmd.conf.SpreadsheetID()
	if err != nil {
		return err
	}

	area := cmd.area
	if strings.TrimSpace(area) == "" {
		area = cmd.conf.Sheets.Range
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, area)
	}

	ctx := context.Background()

	google, err := cmd.sheets(ctx)
	if err != nil {
		return err
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%v)", err)
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	tmp, err := os.CreateTemp(os.TempDir(), "readings")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := readings.MakeTSV(tmp, response); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	tmp.Close()

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved readings to file %s", cmd.file)

	return nil
}
