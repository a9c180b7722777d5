package main

import (
	"testing"

	"github.com/brutella/hap/characteristic"
	client "github.com/hennop/homekit-olarm"
	"github.com/stretchr/testify/require"
)

func TestZones(t *testing.T) {
	cfg := Config{
		MotionZones: []int{2, 4},
		BypassZones: []int{1},
	}

	sensors := []client.ZoneSensor{
		{Name: "Front Door"},
		{Name: "Hallway"},
		{Name: "Zone 3"},
		{Name: "Lounge"},
		{Name: "Powered by AC", Type: client.TypePowerSource},
	}

	zones := cfg.zones(sensors, 4)

	require.Equal(t, []zoneConfig{
		{1, "Front Door", kindContact, true},
		{2, "Hallway", kindMotion, false},
		{3, "Zone 3", kindContact, false},
		{4, "Lounge", kindMotion, false},
	}, zones)
}

func TestAreaHomekitState(t *testing.T) {
	for code, want := range map[string]int{
		"arm":       characteristic.SecuritySystemCurrentStateAwayArm,
		"stay":      characteristic.SecuritySystemCurrentStateStayArm,
		"sleep":     characteristic.SecuritySystemCurrentStateNightArm,
		"disarm":    characteristic.SecuritySystemCurrentStateDisarmed,
		"notready":  characteristic.SecuritySystemCurrentStateDisarmed,
		"countdown": characteristic.SecuritySystemCurrentStateDisarmed,
		"alarm":     characteristic.SecuritySystemCurrentStateAlarmTriggered,
		"fire":      characteristic.SecuritySystemCurrentStateAlarmTriggered,
		"emergency": characteristic.SecuritySystemCurrentStateAlarmTriggered,
		"Arm":       characteristic.SecuritySystemCurrentStateAwayArm,
		"mystery":   -1,
	} {
		t.Run(code, func(t *testing.T) {
			require.Equal(t, want, areaHomekitState(code))
		})
	}
}
