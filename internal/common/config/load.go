package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mirzahilmi/stacy/internal/common/constant"
	"github.com/spf13/viper"
)

const envPrefix = "stacy"

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://127.0.0.1:3001")
	v.SetDefault("token", "")
	v.SetDefault("device_id", "")
	v.SetDefault("uid", "")
	v.SetDefault("identity", constant.IDENTITY_UID)
	v.SetDefault("timeout", 10)

	v.SetDefault("success."+constant.OP_CREATE_USER, []int{201})
	v.SetDefault("success."+constant.OP_CREATE_PLANT, []int{201})
	v.SetDefault("success."+constant.OP_CREATE_PLANT_DATA, []int{201, 200})
	v.SetDefault("success."+constant.OP_GET_PLANTS, []int{200})
	v.SetDefault("success."+constant.OP_CREATE_DEVICE, []int{201, 200})
	v.SetDefault("success."+constant.OP_SIGNUP, []int{201})
	v.SetDefault("success."+constant.OP_LOGIN, []int{200})
	v.SetDefault("success."+constant.OP_REFRESH, []int{200})

	v.SetDefault("listener.url", "")
	v.SetDefault("listener.identity", constant.IDENTITY_UID)
	v.SetDefault("listener.client_id", "")
	v.SetDefault("listener.handshake_timeout", 10)
	v.SetDefault("listener.read_timeout", 0)
	v.SetDefault("listener.reconnect", 0)
	v.SetDefault("listener.reconnect_delay", 5)

	v.SetDefault("mqtt.broker_url", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.client_id", "stacy-listener")
	v.SetDefault("mqtt.topic", "stacy/events")
	v.SetDefault("mqtt.qos", 0)
}

// Load builds the configuration from, in increasing precedence, built-in
// defaults, the optional file at path (json or yaml) and STACY_* environment
// variables. A .env file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: cannot load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config: cannot read file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to decode settings: %w", err)
	}
	return cfg, cfg.Validate()
}
