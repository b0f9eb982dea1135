package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"codeberg.org/mutker/miosbridge/internal/errors"
)

const (
	userDataRequest = "/data_request?id=user_data2&output_format=json"

	defaultRequestTimeout = 30 * time.Second
)

// Client fetches the entity population from the hub's data request
// endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Wire shape of the hub's user data document. Only the fields the
// bridge consumes are decoded.
type userData struct {
	Devices []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		States []struct {
			Service  string `json:"service"`
			Variable string `json:"variable"`
			Value    string `json:"value"`
		} `json:"states"`
	} `json:"devices"`
}

func (c *Client) Enumerate(ctx context.Context) ([]Entity, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userDataRequest, http.NoBody)
	if err != nil {
		return nil, errFactory.Wrap(ErrRequestFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errFactory.WithData(ErrBadStatus, resp.Status)
	}

	var doc userData
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errFactory.Wrap(ErrDecodeFailed, err)
	}

	observed := time.Now()
	entities := make([]Entity, 0, len(doc.Devices))
	for _, dev := range doc.Devices {
		entity := Entity{
			ID:          dev.ID,
			Description: dev.Name,
			States:      make([]AttributeState, 0, len(dev.States)),
		}
		for _, st := range dev.States {
			entity.States = append(entity.States, AttributeState{
				Class:     ServiceClass(st.Service),
				Attribute: st.Variable,
				Value:     st.Value,
				Observed:  observed,
			})
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

// ServiceClass reduces a hub service identifier to its class name.
// Hub services are URNs ("urn:upnp-org:serviceId:SwitchPower1"); the
// class is the final component with its interface version digit
// stripped, so "SwitchPower1" and a future "SwitchPower2" map to the
// same metric streams. Plain names pass through unchanged.
func ServiceClass(service string) string {
	class := service
	if idx := strings.LastIndexByte(class, ':'); idx >= 0 {
		class = class[idx+1:]
	}

	trimmed := strings.TrimRight(class, "0123456789")
	if trimmed == "" {
		return class
	}

	return trimmed
}
