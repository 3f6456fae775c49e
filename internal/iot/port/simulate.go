package port

import (
	"math"
	"math/rand/v2"
)

const (
	batteryMin = 3.0
	batteryMax = 4.2
)

// SimulateReading produces a plausible sample for exercising the server
// without hardware. The heat index and battery percentage are derived from
// the other fields the same way the sensor node computes them.
func SimulateReading(r *rand.Rand) Reading {
	temperature := round2(18 + r.Float64()*10)
	humidity := round2(40 + r.Float64()*30)
	voltage := round2(batteryMin + r.Float64()*(batteryMax-batteryMin))

	return Reading{
		Temperature:       Float(temperature),
		Moisture:          Float(round2(30 + r.Float64()*40)),
		Humidity:          Float(humidity),
		Pressure:          Float(round2(990 + r.Float64()*40)),
		Hic:               Float(round2(HeatIndex(temperature, humidity))),
		BatteryVoltage:    Float(voltage),
		BatteryPercentage: Float(round2(BatteryPercentage(voltage))),
	}
}

// HeatIndex returns the apparent temperature in Celsius for temperature in
// Celsius and relative humidity in percent (NOAA Rothfusz regression with
// Steadman's formula below 80°F).
func HeatIndex(celsius, humidity float64) float64 {
	t := celsius*1.8 + 32
	hi := 0.5 * (t + 61.0 + (t-68.0)*1.2 + humidity*0.094)

	if hi > 79 {
		hi = -42.379 +
			2.04901523*t +
			10.14333127*humidity -
			0.22475541*t*humidity -
			0.00683783*t*t -
			0.05481717*humidity*humidity +
			0.00122874*t*t*humidity +
			0.00085282*t*humidity*humidity -
			0.00000199*t*t*humidity*humidity

		if humidity < 13 && t >= 80 && t <= 112 {
			hi -= ((13 - humidity) * 0.25) * math.Sqrt((17-math.Abs(t-95))*0.05882)
		} else if humidity > 85 && t >= 80 && t <= 87 {
			hi += ((humidity - 85) * 0.1) * ((87 - t) * 0.2)
		}
	}
	return (hi - 32) / 1.8
}

// BatteryPercentage maps a LiPo cell voltage onto 0-100.
func BatteryPercentage(voltage float64) float64 {
	percentage := (voltage - batteryMin) / (batteryMax - batteryMin) * 100
	return math.Max(0, math.Min(100, percentage))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
