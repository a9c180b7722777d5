package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/brutella/hap/characteristic"
	client "github.com/hennop/homekit-olarm"
	"golang.org/x/exp/slices"
)

type Config struct {
	APIKey       string        `env:"API_KEY,required"`
	DeviceID     string        `env:"DEVICE_ID"`
	BaseURL      string        `env:"BASE_URL"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	MotionZones  []int         `env:"MOTION"`
	BypassZones  []int         `env:"BYPASS"`
	Address      string        `env:"LISTEN"        envDefault:":8000"`
}

type zoneKind uint8

const (
	kindContact = iota + 1
	kindMotion
)

func (z zoneKind) String() string {
	switch z {
	case kindMotion:
		return "motion"
	default:
		return "contact"
	}
}

type zoneConfig struct {
	number      int
	name        string
	kind        zoneKind
	allowBypass bool
}

// zones pairs the panel's configured zones with the bridge's per-zone
// options. Zones listed in MOTION become motion sensors, everything else a
// contact sensor.
func (c Config) zones(sensors []client.ZoneSensor, limit int) []zoneConfig {
	var zones []zoneConfig
	for i, sensor := range sensors {
		if i >= limit {
			break
		}
		number := i + 1
		kind := zoneKind(kindContact)
		if slices.Contains(c.MotionZones, number) {
			kind = kindMotion
		}
		zones = append(zones, zoneConfig{
			number:      number,
			name:        sensor.Name,
			kind:        kind,
			allowBypass: slices.Contains(c.BypassZones, number),
		})
	}
	return zones
}

type allZoneConfigs []zoneConfig

func (a allZoneConfigs) String() string {
	var zones []string
	for _, zone := range a {
		zones = append(
			zones,
			fmt.Sprintf("zone %d: %q (%s)", zone.number, zone.name, zone.kind.String()),
		)
	}
	return strings.Join(zones, "\n")
}

// areaHomekitState maps a raw vendor area code to the HomeKit current
// state, or -1 for codes with no HomeKit equivalent.
func areaHomekitState(code string) int {
	switch strings.ToLower(code) {
	case "arm":
		return characteristic.SecuritySystemCurrentStateAwayArm
	case "stay":
		return characteristic.SecuritySystemCurrentStateStayArm
	case "sleep":
		return characteristic.SecuritySystemCurrentStateNightArm
	case "disarm", "notready", "countdown":
		return characteristic.SecuritySystemCurrentStateDisarmed
	case "alarm", "fire", "emergency":
		return characteristic.SecuritySystemCurrentStateAlarmTriggered
	default:
		return -1
	}
}
