package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mirzahilmi/stacy/internal/common/constant"
	"github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:3001", cfg.BaseUrl)
	assert.Equal(t, "ws://127.0.0.1:3001", cfg.WebsocketUrl())
	assert.Equal(t, constant.IDENTITY_UID, cfg.Identity)
	assert.Equal(t, constant.IDENTITY_UID, cfg.Listener.Identity)
	assert.EqualValues(t, 10, cfg.Timeout)
	assert.Equal(t, []int{201, 200}, cfg.SuccessCodes(constant.OP_CREATE_PLANT_DATA))
	assert.Equal(t, []int{201}, cfg.SuccessCodes(constant.OP_CREATE_USER))
	assert.Zero(t, cfg.Listener.Reconnect)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("STACY_BASE_URL", "https://plants.example.com")
	t.Setenv("STACY_TOKEN", "BEARER_TOKEN")
	t.Setenv("STACY_DEVICE_ID", "01:01:01:01:01")
	t.Setenv("STACY_IDENTITY", constant.IDENTITY_USER_ID)
	t.Setenv("STACY_LISTENER_READ_TIMEOUT", "30")
	t.Setenv("STACY_SUCCESS_CREATE_PLANT", "200,201")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://plants.example.com", cfg.BaseUrl)
	assert.Equal(t, "wss://plants.example.com", cfg.WebsocketUrl())
	assert.Equal(t, "BEARER_TOKEN", cfg.Token)
	assert.Equal(t, "01:01:01:01:01", cfg.DeviceId)
	assert.Equal(t, constant.IDENTITY_USER_ID, cfg.Identity)
	assert.EqualValues(t, 30, cfg.Listener.ReadTimeout)
	assert.Equal(t, []int{200, 201}, cfg.SuccessCodes(constant.OP_CREATE_PLANT))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stacy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://10.0.0.5:3001
uid: 9f86d081884c7d65
listener:
  identity: clientId
  client_id: Flutter-Client
  url: ws://10.0.0.5:3002
mqtt:
  broker_url: tcp://10.0.0.5:1883
  topic: plants/events
  qos: 1
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:3001", cfg.BaseUrl)
	assert.Equal(t, "9f86d081884c7d65", cfg.Uid)
	assert.Equal(t, constant.IDENTITY_CLIENT_ID, cfg.Listener.Identity)
	assert.Equal(t, "Flutter-Client", cfg.Listener.ClientId)
	assert.Equal(t, "ws://10.0.0.5:3002", cfg.WebsocketUrl())
	assert.Equal(t, "tcp://10.0.0.5:1883", cfg.Mqtt.BrokerUrl)
	assert.Equal(t, "plants/events", cfg.Mqtt.Topic)
	assert.EqualValues(t, 1, cfg.Mqtt.Qos)
	assert.Equal(t, "stacy-listener", cfg.Mqtt.ClientId)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		BaseUrl:  "not a url",
		Identity: "email",
		Listener: Listener{Identity: "token"},
		Mqtt:     Mqtt{Qos: 3},
	}
	err := cfg.Validate()

	errValidation := new(errors.ValidationError)
	require.ErrorAs(t, err, &errValidation)
	assert.Len(t, errValidation.Fields(), 4)
	assert.Contains(t, err.Error(), "identity: unknown identity header strategy")
}

func TestSuccessCodesFallback(t *testing.T) {
	cfg := Config{Success: map[string][]int{constant.OP_LOGIN: {}}}
	assert.Equal(t, []int{200}, cfg.SuccessCodes(constant.OP_LOGIN, 200))
	assert.Equal(t, []int{201}, cfg.SuccessCodes(constant.OP_SIGNUP, 201))
}
