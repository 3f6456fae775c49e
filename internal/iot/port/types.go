package port

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/mirzahilmi/stacy/internal/common/errors"
)

type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NewPlant struct {
	PlantName string `json:"plant_name"`
}

type Plant struct {
	PlantId   int64  `json:"plant_id,omitempty"`
	UserId    int64  `json:"user_id,omitempty"`
	DeviceId  string `json:"device_id,omitempty"`
	PlantName string `json:"plant_name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Reading is one sensor sample. Unset fields are left out of the body since
// firmware revisions disagree on which sensors exist.
type Reading struct {
	Temperature       *float64 `json:"temperature,omitempty"`
	Moisture          *float64 `json:"moisture,omitempty"`
	Humidity          *float64 `json:"humidity,omitempty"`
	Pressure          *float64 `json:"pressure,omitempty"`
	Hic               *float64 `json:"hic,omitempty"`
	BatteryVoltage    *float64 `json:"batteryVoltage,omitempty"`
	BatteryPercentage *float64 `json:"batteryPercentage,omitempty"`
}

func (r Reading) fields() map[string]*float64 {
	return map[string]*float64{
		"temperature":        r.Temperature,
		"moisture":           r.Moisture,
		"humidity":           r.Humidity,
		"pressure":           r.Pressure,
		"hic":                r.Hic,
		"battery_voltage":    r.BatteryVoltage,
		"battery_percentage": r.BatteryPercentage,
	}
}

// Result is a response whose status was in the operation's success set.
// Legacy is set when the server answered with an accepted code other than
// the preferred one, e.g. 200 where 201 is expected.
type Result struct {
	Status int
	Body   []byte
	Legacy bool
}

type Session struct {
	Uid   string `json:"uid"`
	Token string `json:"auth_token"`
}

type uidBody struct {
	Uid string `json:"uid"`
}

// Event is one frame pushed by the server.
type Event struct {
	Binary     bool
	Payload    []byte
	ReceivedAt time.Time
}

// Decode unmarshals a json payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return errors.NewProtocolError("listener", e.Payload, err)
	}
	return nil
}

func Float(v float64) *float64 {
	return &v
}
