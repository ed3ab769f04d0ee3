package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/net/context/ctxhttp"
)

const ZLLTemperature = "ZLLTemperature"

// Sensor is a single entry from the gateway /sensors resource. Only the fields used to
// build a reading are decoded.
type Sensor struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	UniqueID string `json:"uniqueid"`
	State    State  `json:"state"`
}

type State struct {
	LastUpdated string `json:"lastupdated"`
	Temperature int    `json:"temperature"`
}

// Record is an undecoded /sensors entry. Only the sensor type is read up front: the
// gateway reports many kinds of sensor and each has its own 'state' layout.
type Record struct {
	Type string
	raw  json.RawMessage
}

// NewRecord wraps a decoded sensor as a gateway record.
func NewRecord(sensor Sensor) Record {
	b, _ := json.Marshal(sensor)

	return Record{
		Type: sensor.Type,
		raw:  b,
	}
}

// UnmarshalJSON keeps the raw entry. An entry without a readable 'type' is kept with an
// empty Type so that it never matches a sensor filter.
func (r *Record) UnmarshalJSON(b []byte) error {
	var v struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &v); err == nil {
		r.Type = v.Type
	}

	r.raw = append(json.RawMessage(nil), b...)

	return nil
}

// Sensor decodes the full sensor entry.
func (r Record) Sensor() (Sensor, error) {
	sensor := Sensor{}
	if err := json.Unmarshal(r.raw, &sensor); err != nil {
		return Sensor{}, err
	}

	return sensor, nil
}

// Sensors is the gateway response keyed by sensor index, in response order.
type Sensors = orderedmap.OrderedMap[string, Record]

type Gateway struct {
	URL    string
	client *http.Client
}

// NewGateway returns a client for the sensors resource of the gateway at 'address'
// (host or host:port) for the whitelisted application user 'username'.
func NewGateway(address, username string, timeout time.Duration) *Gateway {
	return &Gateway{
		URL: fmt.Sprintf("http://%s/api/%s/sensors", address, username),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *Gateway) Sensors(ctx context.Context) (*Sensors, error) {
	response, err := ctxhttp.Get(ctx, g.client, g.URL)
	if err != nil {
		return nil, fmt.Errorf("error retrieving sensors from gateway (%w)", err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %v", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading gateway response (%w)", err)
	}

	return Parse(body)
}

// Parse decodes a /sensors response body. The gateway reports errors (e.g. an unknown
// application user) as a JSON array of error objects with a 200 status.
func Parse(body []byte) (*Sensors, error) {
	var errors []struct {
		Error struct {
			Type        int    `json:"type"`
			Address     string `json:"address"`
			Description string `json:"description"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errors); err == nil {
		if len(errors) > 0 {
			return nil, fmt.Errorf("gateway error %v: %v", errors[0].Error.Type, errors[0].Error.Description)
		}

		return nil, fmt.Errorf("invalid gateway response (empty list)")
	}

	sensors := orderedmap.New[string, Record]()

	if err := json.Unmarshal(body, sensors); err != nil {
		return nil, fmt.Errorf("invalid gateway response (%w)", err)
	}

	return sensors, nil
}
