package port

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatIndex(t *testing.T) {
	assert.InDelta(t, 19.36, HeatIndex(20, 50), 0.01)
	assert.InDelta(t, 40.41, HeatIndex(32, 70), 0.01)
}

func TestBatteryPercentage(t *testing.T) {
	assert.InDelta(t, 50, BatteryPercentage(3.6), 0.0001)
	assert.Equal(t, 100.0, BatteryPercentage(4.5))
	assert.Equal(t, 0.0, BatteryPercentage(2.9))
}

func TestSimulateReading(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		reading := SimulateReading(random)
		for field, value := range reading.fields() {
			require.NotNil(t, value, field)
		}
		assert.GreaterOrEqual(t, *reading.Temperature, 18.0)
		assert.LessOrEqual(t, *reading.Temperature, 28.0)
		assert.GreaterOrEqual(t, *reading.BatteryVoltage, batteryMin)
		assert.LessOrEqual(t, *reading.BatteryVoltage, batteryMax)
		assert.InDelta(t, BatteryPercentage(*reading.BatteryVoltage), *reading.BatteryPercentage, 0.01)
		assert.InDelta(t, HeatIndex(*reading.Temperature, *reading.Humidity), *reading.Hic, 0.01)
	}
}
