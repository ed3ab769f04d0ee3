package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/huesheets/hue-sheets/auth"
)

type gateway struct {
	*httptest.Server
	requests atomic.Int32
}

func newGateway(t *testing.T) *gateway {
	g := gateway{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		g.requests.Add(1)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"1":{"type":"ZLLTemperature","uniqueid":"AA","state":{"lastupdated":"2020-01-01T00:00:00","temperature":2150}}}`)
	}))

	t.Cleanup(g.Close)

	return &g
}

func writeConfig(t *testing.T, address, secrets, tokens string) string {
	dir := t.TempDir()
	file := filepath.Join(dir, "default.json")
	config := fmt.Sprintf(`{
  "hue":    { "ip": %q, "appUsername": "qwerty" },
  "sheets": { "id": "https://docs.google.com/spreadsheets/d/abc/edit", "range": "Readings!A2:D" },
  "google": { "secrets": %q, "tokens": %q }
}`, address, secrets, tokens)

	if err := os.WriteFile(file, []byte(config), 0600); err != nil {
		t.Fatalf("Error writing configuration file (%v)", err)
	}

	return file
}

func TestLoad(t *testing.T) {
	file := writeConfig(t, "192.168.1.100", "secrets.json", "tokens.json")

	cmd := command{}
	if err := cmd.load(&Options{Config: file, Debug: true}); err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if !cmd.debug {
		t.Errorf("Expected 'debug' to be set from options")
	}

	if cmd.conf.Hue.IP != "192.168.1.100" {
		t.Errorf("Incorrect gateway address - expected:%v, got:%v", "192.168.1.100", cmd.conf.Hue.IP)
	}

	if id, _ := cmd.conf.SpreadsheetID(); id != "abc" {
		t.Errorf("Incorrect spreadsheet ID - expected:%v, got:%v", "abc", id)
	}
}

func TestLoadWithMissingConfiguration(t *testing.T) {
	cmd := command{}
	if err := cmd.load(&Options{Config: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Errorf("Expected error loading missing configuration, got %v", err)
	}
}

func TestPollDryRun(t *testing.T) {
	g := newGateway(t)
	file := writeConfig(t, strings.TrimPrefix(g.URL, "http://"), filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "tokens.json"))

	cmd := Poll{dryrun: true}
	if err := cmd.Execute(&Options{Config: file}); err != nil {
		t.Fatalf("Unexpected error executing dry run (%v)", err)
	}

	if n := g.requests.Load(); n != 1 {
		t.Errorf("Expected 1 gateway request, got %v", n)
	}
}

func TestPollWithMissingClientSecret(t *testing.T) {
	g := newGateway(t)
	file := writeConfig(t, strings.TrimPrefix(g.URL, "http://"), filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "tokens.json"))

	cmd := Poll{}
	if err := cmd.Execute(&Options{Config: file}); err == nil {
		t.Fatalf("Expected error for missing client secret, got %v", err)
	}

	if n := g.requests.Load(); n != 0 {
		t.Errorf("Expected no gateway requests, got %v", n)
	}
}

func TestPollWithTokenExchangeError(t *testing.T) {
	g := newGateway(t)

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))

	defer tokenServer.Close()

	secrets := filepath.Join(t.TempDir(), "oauth_client.json")
	descriptor := fmt.Sprintf(`{"web":{"client_id":"X","client_secret":"Y","redirect_uris":["Z"],"token_uri":%q}}`, tokenServer.URL)
	if err := os.WriteFile(secrets, []byte(descriptor), 0600); err != nil {
		t.Fatalf("Error writing client secret (%v)", err)
	}

	tokens := filepath.Join(t.TempDir(), ".credentials", "google-api-creds.json")
	file := writeConfig(t, strings.TrimPrefix(g.URL, "http://"), secrets, tokens)

	prompted := 0
	cmd := Poll{
		command: command{
			prompt: auth.CodeProviderFunc(func(ctx context.Context, url string) (string, error) {
				prompted++
				return "4/invalid", nil
			}),
		},
	}

	if err := cmd.Execute(&Options{Config: file}); err == nil {
		t.Fatalf("Expected error for failed token exchange, got %v", err)
	}

	if prompted != 1 {
		t.Errorf("Expected authorisation code prompt, got %v prompts", prompted)
	}

	if n := g.requests.Load(); n != 0 {
		t.Errorf("Expected no gateway requests, got %v", n)
	}

	if _, err := os.Stat(tokens); !os.IsNotExist(err) {
		t.Errorf("Expected no token file, got %v", err)
	}
}

func TestPollWithExpiredToken(t *testing.T) {
	g := newGateway(t)

	var mu sync.Mutex
	grants := []string{}
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		if err := rq.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mu.Lock()
		grants = append(grants, rq.PostForm.Get("grant_type")+":"+rq.PostForm.Get("refresh_token"))
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"ya29.refreshed","token_type":"Bearer","expires_in":3600}`)
	}))

	defer tokenServer.Close()

	authorization := []string{}
	values := [][]any{}
	sheetsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		var body sheets.ValueRange
		if err := json.NewDecoder(rq.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mu.Lock()
		authorization = append(authorization, rq.Header.Get("Authorization"))
		values = append(values, body.Values...)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"spreadsheetId":"abc","tableRange":"Readings!A1:D1","updates":{"spreadsheetId":"abc","updatedRange":"Readings!A2:D2","updatedRows":1}}`)
	}))

	defer sheetsServer.Close()

	secrets := filepath.Join(t.TempDir(), "oauth_client.json")
	descriptor := fmt.Sprintf(`{"web":{"client_id":"X","client_secret":"Y","redirect_uris":["Z"],"token_uri":%q}}`, tokenServer.URL)
	if err := os.WriteFile(secrets, []byte(descriptor), 0600); err != nil {
		t.Fatalf("Error writing client secret (%v)", err)
	}

	tokens := filepath.Join(t.TempDir(), "google-api-creds.json")
	cached, _ := json.Marshal(oauth2.Token{
		AccessToken:  "ya29.expired",
		TokenType:    "Bearer",
		RefreshToken: "1//cached",
		Expiry:       time.Now().Add(-1 * time.Hour),
	})

	if err := os.WriteFile(tokens, cached, 0600); err != nil {
		t.Fatalf("Error writing cached token (%v)", err)
	}

	before, err := os.Stat(tokens)
	if err != nil {
		t.Fatalf("Error reading cached token (%v)", err)
	}

	file := writeConfig(t, strings.TrimPrefix(g.URL, "http://"), secrets, tokens)

	cmd := Poll{
		command: command{
			prompt: auth.CodeProviderFunc(func(ctx context.Context, url string) (string, error) {
				return "", fmt.Errorf("unexpected authorisation prompt")
			}),
			options: []option.ClientOption{
				option.WithEndpoint(sheetsServer.URL + "/"),
			},
		},
	}

	if err := cmd.Execute(&Options{Config: file}); err != nil {
		t.Fatalf("Unexpected error polling with expired token (%v)", err)
	}

	if !reflect.DeepEqual(grants, []string{"refresh_token:1//cached"}) {
		t.Errorf("Incorrect token refresh - expected:%v, got:%v", []string{"refresh_token:1//cached"}, grants)
	}

	if !reflect.DeepEqual(authorization, []string{"Bearer ya29.refreshed"}) {
		t.Errorf("Incorrect append authorization - expected:%v, got:%v", []string{"Bearer ya29.refreshed"}, authorization)
	}

	expected := [][]any{{"2020-01-01T00:00:00", "AA", 2150.0, 21.5}}
	if !reflect.DeepEqual(values, expected) {
		t.Errorf("Incorrect appended values\n   expected: %v\n   got:      %v", expected, values)
	}

	if n := g.requests.Load(); n != 1 {
		t.Errorf("Expected 1 gateway request, got %v", n)
	}

	after, err := os.Stat(tokens)
	if err != nil {
		t.Fatalf("Error reading cached token (%v)", err)
	}

	if !after.ModTime().Equal(before.ModTime()) {
		t.Errorf("Cached token file was rewritten")
	}

	if b, err := os.ReadFile(tokens); err != nil {
		t.Fatalf("Error reading cached token (%v)", err)
	} else if !bytes.Equal(b, cached) {
		t.Errorf("Cached token modified\n   expected: %s\n   got:      %s", cached, b)
	}
}
