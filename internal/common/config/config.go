package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mirzahilmi/stacy/internal/common/constant"
	"github.com/mirzahilmi/stacy/internal/common/errors"
)

type Config struct {
	BaseUrl  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	DeviceId string `mapstructure:"device_id"`
	Uid      string `mapstructure:"uid"`
	// Identity selects the header carrying the user identity, either
	// constant.IDENTITY_UID or the legacy constant.IDENTITY_USER_ID.
	Identity string `mapstructure:"identity"`
	// Timeout is the HTTP request timeout in seconds, 0 disables it.
	Timeout  int64            `mapstructure:"timeout"`
	Success  map[string][]int `mapstructure:"success"`
	Listener Listener         `mapstructure:"listener"`
	Mqtt     Mqtt             `mapstructure:"mqtt"`
}

type Listener struct {
	Url              string `mapstructure:"url"`
	Identity         string `mapstructure:"identity"`
	ClientId         string `mapstructure:"client_id"`
	HandshakeTimeout int64  `mapstructure:"handshake_timeout"`
	ReadTimeout      int64  `mapstructure:"read_timeout"`
	Reconnect        int    `mapstructure:"reconnect"`
	ReconnectDelay   int64  `mapstructure:"reconnect_delay"`
}

type Mqtt struct {
	BrokerUrl string `mapstructure:"broker_url"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	ClientId  string `mapstructure:"client_id"`
	Topic     string `mapstructure:"topic"`
	Qos       byte   `mapstructure:"qos"`
}

func (c Config) Validate() error {
	fields := map[string]string{}
	if c.BaseUrl == "" {
		fields["base_url"] = "must not be empty"
	} else if u, err := url.Parse(c.BaseUrl); err != nil || u.Host == "" {
		fields["base_url"] = fmt.Sprintf("not an absolute url: %s", c.BaseUrl)
	}
	switch c.Identity {
	case constant.IDENTITY_UID, constant.IDENTITY_USER_ID:
	default:
		fields["identity"] = fmt.Sprintf("unknown identity header strategy %q", c.Identity)
	}
	switch c.Listener.Identity {
	case constant.IDENTITY_UID, constant.IDENTITY_CLIENT_ID:
	default:
		fields["listener.identity"] = fmt.Sprintf("unknown websocket identity strategy %q", c.Listener.Identity)
	}
	if c.Mqtt.Qos > 2 {
		fields["mqtt.qos"] = "must be 0, 1 or 2"
	}
	if len(fields) > 0 {
		return errors.NewValidationError(fields)
	}
	return nil
}

// SuccessCodes returns the acceptable status codes for operation, falling
// back to fallback when the configuration does not override them.
func (c Config) SuccessCodes(operation string, fallback ...int) []int {
	if codes, ok := c.Success[operation]; ok && len(codes) > 0 {
		return codes
	}
	return fallback
}

// WebsocketUrl is the push channel endpoint. When unset it is derived from
// the base url by swapping the scheme.
func (c Config) WebsocketUrl() string {
	if c.Listener.Url != "" {
		return c.Listener.Url
	}
	u, err := url.Parse(c.BaseUrl)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = ""
	return u.String()
}

func (c Config) HttpTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
