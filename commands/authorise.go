package commands

import (
	"context"
	"flag"
	"fmt"
)

var AuthoriseCmd = Authorise{}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises hue-sheets to access Google Sheets on your behalf"
}

func (cmd *Authorise) Usage() string {
	return ""
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] authorise\n", APP)
	fmt.Println()
	fmt.Println("  Authorises hue-sheets to access Google Sheets. If there is no valid token in the token")
	fmt.Println("  file, prints the Google consent URL and waits for the authorisation code to be entered.")
	fmt.Println("  The resulting token is stored in the token file for subsequent runs.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    hue-sheets --config config/default.json authorise`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("authorise", flag.ExitOnError)
}

func (cmd *Authorise) Execute(args ...any) error {
	if err := cmd.load(args...); err != nil {
		return err
	}

	if _, _, err := cmd.authorise(context.Background()); err != nil {
		return err
	}

	infof("Authorised - token in %v", cmd.conf.Google.Tokens)

	return nil
}
