package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

const TOKENS = "google-api-creds.json"

var Scopes = []string{
	drive.DriveScope,
	drive.DriveFileScope,
	sheets.SpreadsheetsScope,
}

// Authorizer obtains an OAuth2 token for the Google APIs, either from the token file or
// by running the consent flow through the CodeProvider.
type Authorizer struct {
	Config *oauth2.Config
	Tokens string
	Prompt CodeProvider
	Log    io.Writer
}

// NewAuthorizer loads the client secret from the 'secrets' file. The file is the JSON
// descriptor downloaded from the Google API console i.e. {"web":{"client_id":...}}
// or {"installed":{...}}.
func NewAuthorizer(secrets, tokens string, prompt CodeProvider) (*Authorizer, error) {
	b, err := os.ReadFile(secrets)
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid client secret %v (%w)", secrets, err)
	}

	if config.Endpoint.AuthURL == "" {
		config.Endpoint.AuthURL = google.Endpoint.AuthURL
	}

	if config.Endpoint.TokenURL == "" {
		config.Endpoint.TokenURL = google.Endpoint.TokenURL
	}

	return &Authorizer{
		Config: config,
		Tokens: tokens,
		Prompt: prompt,
		Log:    os.Stdout,
	}, nil
}

// Authorize returns the cached token if the token file exists and is valid JSON. The
// token expiry is not checked - an expired access token is refreshed by the client
// returned from Client when it has a refresh token.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	if token, err := tokenFromFile(a.Tokens); err == nil {
		return token, nil
	}

	if a.Prompt == nil {
		return nil, fmt.Errorf("no valid token in %v and no authorisation code provider", a.Tokens)
	}

	url := a.Config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	code, err := a.Prompt.Code(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to read authorisation code (%w)", err)
	}

	token, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("error while trying to retrieve access token (%w)", err)
	}

	if err := saveToken(a.Tokens, token); err != nil {
		return nil, err
	}

	fmt.Fprintf(a.Log, "Token stored to %v\n", a.Tokens)

	return token, nil
}

func (a *Authorizer) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	return a.Config.Client(ctx, token)
}

// Retrieves a token from a local file. A token with only a refresh token is usable: the
// access token is issued on first use.
func tokenFromFile(file string) (*oauth2.Token, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	token := oauth2.Token{}
	if err := json.Unmarshal(b, &token); err != nil {
		return nil, err
	}

	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%v: missing access token", file)
	}

	return &token, nil
}

// Saves a token to a file path, creating the directory if necessary.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("unable to create token directory (%w)", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token (%w)", err)
	}

	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("unable to cache oauth token (%w)", err)
	}

	return nil
}

// DefaultTokens returns the token file path in the user home directory, taken from the
// first of HOME, HOMEPATH or USERPROFILE that is set.
func DefaultTokens(getenv func(string) string) (string, error) {
	for _, v := range []string{"HOME", "HOMEPATH", "USERPROFILE"} {
		if home := getenv(v); home != "" {
			return filepath.Join(home, ".credentials", TOKENS), nil
		}
	}

	return "", fmt.Errorf("unable to determine home directory for token file")
}
