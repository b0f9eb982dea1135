package hub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/mutker/miosbridge/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDataBody = `{
  "devices": [
    {
      "id": 5,
      "name": "Lamp",
      "states": [
        {"service": "urn:upnp-org:serviceId:SwitchPower1", "variable": "Status", "value": "1"},
        {"service": "urn:micasaverde-com:serviceId:HaDevice1", "variable": "LastUpdate", "value": "1700000000"}
      ]
    },
    {
      "id": 9,
      "name": "Porch Sensor",
      "states": [
        {"service": "TemperatureSensor", "variable": "CurrentTemperature", "value": "21.5"}
      ]
    }
  ]
}`

func TestClientEnumerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data_request", r.URL.Path)
		assert.Equal(t, "user_data2", r.URL.Query().Get("id"))
		w.Write([]byte(userDataBody))
	}))
	defer server.Close()

	client := hub.NewClient(server.URL)
	entities, err := client.Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 2)

	lamp := entities[0]
	assert.Equal(t, 5, lamp.ID)
	assert.Equal(t, "Lamp", lamp.Description)
	require.Len(t, lamp.States, 2)
	assert.Equal(t, "SwitchPower", lamp.States[0].Class)
	assert.Equal(t, "Status", lamp.States[0].Attribute)
	assert.Equal(t, "1", lamp.States[0].Value)
	assert.False(t, lamp.States[0].Observed.IsZero())

	sensor := entities[1]
	require.Len(t, sensor.States, 1)
	assert.Equal(t, "TemperatureSensor", sensor.States[0].Class)
}

func TestClientEnumerateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := hub.NewClient(server.URL)
	_, err := client.Enumerate(context.Background())
	require.Error(t, err)
}

func TestClientEnumerateBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := hub.NewClient(server.URL)
	_, err := client.Enumerate(context.Background())
	require.Error(t, err)
}

func TestServiceClass(t *testing.T) {
	assert.Equal(t, "SwitchPower", hub.ServiceClass("urn:upnp-org:serviceId:SwitchPower1"))
	assert.Equal(t, "HaDevice", hub.ServiceClass("urn:micasaverde-com:serviceId:HaDevice1"))
	assert.Equal(t, "SwitchPower", hub.ServiceClass("SwitchPower"))
	assert.Equal(t, "42", hub.ServiceClass("42"), "all-digit names are kept as-is")
	assert.Equal(t, "", hub.ServiceClass(""))
}
