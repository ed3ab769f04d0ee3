package commands

import (
	"context"
	"flag"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/huesheets/hue-sheets/collector"
	"github.com/huesheets/hue-sheets/hue"
)

var PollCmd = Poll{
	dryrun: false,
}

// Poll authorises access to the spreadsheet and then appends the current sensor
// readings from the gateway. It is the default command.
type Poll struct {
	command
	dryrun bool
}

func (cmd *Poll) Name() string {
	return "poll"
}

func (cmd *Poll) Description() string {
	return "Appends the current gateway temperature readings to a Google Sheets worksheet"
}

func (cmd *Poll) Usage() string {
	return "[--dry-run]"
}

func (cmd *Poll) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] poll [--dry-run]\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the sensors from the Hue gateway and appends a row for each temperature sensor")
	fmt.Println("  to the configured Google Sheets range. 'poll' is the default command and is intended to")
	fmt.Println("  be run from a cron job.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    hue-sheets`)
	fmt.Println(`    hue-sheets --debug --config config/default.json poll --dry-run`)
	fmt.Println()
}

func (cmd *Poll) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("poll", flag.ExitOnError)

	flagset.BoolVar(&cmd.dryrun, "dry-run", cmd.dryrun, "Logs the readings without appending them to the worksheet")

	return flagset
}

func (cmd *Poll) Execute(args ...any) error {
	if err := cmd.load(args...); err != nil {
		return err
	}

	ctx := context.Background()

	spreadsheet, err := cmd.conf.SpreadsheetID()
	if err != nil {
		return err
	}

	// ... a dry run never touches the spreadsheet so skips the authorisation
	var google *sheets.Service
	if !cmd.dryrun {
		if google, err = cmd.sheets(ctx); err != nil {
			return err
		}
	}

	c := collector.Collector{
		Gateway:     hue.NewGateway(cmd.conf.Hue.IP, cmd.conf.Hue.AppUsername, cmd.conf.Hue.Timeout.Duration()),
		Sheets:      google,
		Spreadsheet: spreadsheet,
		Range:       cmd.conf.Sheets.Range,
		Filter:      cmd.conf.Hue.SensorType,
		DryRun:      cmd.dryrun,
		Debug:       cmd.debug,
	}

	if _, err := c.Collect(ctx); err != nil {
		return err
	}

	return nil
}
