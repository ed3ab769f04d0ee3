package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/huesheets/hue-sheets/auth"
	"github.com/huesheets/hue-sheets/config"
)

const APP = "hue-sheets"

type Options struct {
	Config string
	Debug  bool
}

type command struct {
	conf    *config.Config
	prompt  auth.CodeProvider
	options []option.ClientOption
	debug   bool
}

// load initialises the command from the global options and the configuration file.
func (c *command) load(args ...any) error {
	options := Options{Config: config.DefaultConfig}
	if len(args) > 0 {
		if v, ok := args[0].(*Options); ok && v != nil {
			options = *v
		}
	}

	c.debug = options.Debug

	conf, err := config.Load(options.Config)
	if err != nil {
		return fmt.Errorf("could not load configuration (%w)", err)
	}

	c.conf = conf

	if c.debug {
		debugf("Configuration - gateway:%v  sensors:%v  spreadsheet:%v  range:%v", conf.Hue.IP, conf.Hue.SensorType, conf.Sheets.ID, conf.Sheets.Range)
		debugf("Credentials   - secrets:%v  tokens:%v", conf.Google.Secrets, conf.Google.Tokens)
	}

	return nil
}

// authorise runs the OAuth2 bootstrap, prompting on the terminal if there is no usable
// cached token.
func (c *command) authorise(ctx context.Context) (*auth.Authorizer, *oauth2.Token, error) {
	var prompt auth.CodeProvider = auth.Terminal{
		In:  os.Stdin,
		Out: os.Stdout,
	}

	if c.prompt != nil {
		prompt = c.prompt
	}

	authorizer, err := auth.NewAuthorizer(c.conf.Google.Secrets, c.conf.Google.Tokens, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load client secret (%w)", err)
	}

	token, err := authorizer.Authorize(ctx)
	if err != nil {
		warnf("%v", err)
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	return authorizer, token, nil
}

// sheets returns a Google Sheets client authorised with the cached (or newly issued)
// token. The command options are applied after the authorised HTTP client.
func (c *command) sheets(ctx context.Context) (*sheets.Service, error) {
	authorizer, token, err := c.authorise(ctx)
	if err != nil {
		return nil, err
	}

	client := authorizer.Client(ctx, token)

	options := append([]option.ClientOption{option.WithHTTPClient(client)}, c.options...)

	google, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return google, nil
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
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
