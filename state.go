package olarm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const stampLayout = "Mon 02 Jan 2006 15:04:05"

// Zone timestamps render two hours ahead of wall clock; the vendor apps
// have always displayed them this way and downstream consumers expect it.
const stampShift = 2 * time.Hour

// Zone state codes: "a" active, "b" bypassed. Case-insensitive.
const (
	codeActive = "a"
	codeBypass = "b"
)

// ZoneSensors normalizes the per-zone states of a snapshot, one record per
// configured zone, followed by one synthetic record per power source.
// Timestamps use the local time zone.
func ZoneSensors(snap DeviceSnapshot) []ZoneSensor {
	return ZoneSensorsIn(snap, time.Local)
}

// ZoneSensorsIn is ZoneSensors with timestamps rendered in loc.
func ZoneSensorsIn(snap DeviceSnapshot, loc *time.Location) []ZoneSensor {
	state, profile := snap.State, snap.Profile

	sensors := make([]ZoneSensor, 0, profile.ZonesLimit+len(state.Power))
	for i := 0; i < profile.ZonesLimit; i++ {
		sensor := ZoneSensor{
			State: onOff(strings.EqualFold(stringAt(state.Zones, i), codeActive)),
		}
		if label := labelAt(profile.ZonesLabels, i); label != "" {
			sensor.Name = label
			sensor.Type = intAt(profile.ZonesTypes, i)
		} else {
			sensor.Name = fmt.Sprintf("Zone %d", i+1)
		}
		if i < len(state.ZonesStamp) {
			sensor.LastChanged = formatStamp(int64(state.ZonesStamp[i]), loc)
		}
		sensors = append(sensors, sensor)
	}

	for _, key := range powerKeys(state.Power) {
		sensor := ZoneSensor{
			Name:  "Powered by " + key,
			State: onOff(state.Power[key] == 1),
			Type:  TypePowerSource,
		}
		if key == "Batt" {
			sensor.Name = "Powered by Battery"
			sensor.Type = TypeBattery
		}
		sensors = append(sensors, sensor)
	}
	return sensors
}

// BypassStates normalizes the per-zone bypass states of a snapshot.
// Timestamps use the local time zone.
func BypassStates(snap DeviceSnapshot) []BypassState {
	return BypassStatesIn(snap, time.Local)
}

// BypassStatesIn is BypassStates with timestamps rendered in loc.
func BypassStatesIn(snap DeviceSnapshot, loc *time.Location) []BypassState {
	state, profile := snap.State, snap.Profile

	states := make([]BypassState, 0, profile.ZonesLimit)
	for i := 0; i < profile.ZonesLimit; i++ {
		bypass := BypassState{
			State: onOff(strings.EqualFold(stringAt(state.Zones, i), codeBypass)),
		}
		if bypass.Name = labelAt(profile.ZonesLabels, i); bypass.Name == "" {
			bypass.Name = fmt.Sprintf("Zone %d", i+1)
		}
		if i < len(state.ZonesStamp) {
			bypass.LastChanged = formatStamp(int64(state.ZonesStamp[i]), loc)
		}
		states = append(states, bypass)
	}
	return states
}

// Areas normalizes the panel areas of a snapshot. Areas the device does not
// report a live state for are skipped.
func Areas(snap DeviceSnapshot) []Area {
	state, profile := snap.State, snap.Profile

	areas := make([]Area, 0, profile.AreasLimit)
	for i := 0; i < profile.AreasLimit; i++ {
		if i >= len(state.Areas) {
			continue
		}
		name := labelAt(profile.AreasLabels, i)
		if name == "" {
			log.Debug("area name not set, generating automatically", "area", i+1)
			name = fmt.Sprintf("Area %d", i+1)
		}
		areas = append(areas, Area{
			Name:   name,
			State:  state.Areas[i],
			Number: i + 1,
		})
	}
	return areas
}

// PGMs normalizes the programmable outputs of a snapshot. Outputs whose
// control string is empty or too short to decode are skipped.
func PGMs(snap DeviceSnapshot) []PGM {
	state, profile := snap.State, snap.Profile

	var pgms []PGM
	for i := 0; i < profile.PGMLimit; i++ {
		// control encodes the output's flags by character position:
		// position 0 is enabled, position 2 is pulse mode.
		control := stringAt(profile.PGMControl, i)
		if len(control) < 3 {
			continue
		}
		name := labelAt(profile.PGMLabels, i)
		if name == "" {
			log.Debug("pgm name not set, generating automatically", "pgm", i+1)
			name = fmt.Sprintf("PGM %d", i+1)
		}
		pgms = append(pgms, PGM{
			Name:    name,
			Enabled: control[0] == '1',
			Pulse:   control[2] == '1',
			State:   strings.EqualFold(stringAt(state.PGM, i), codeActive),
			Number:  i + 1,
		})
	}
	return pgms
}

// Ukeys normalizes the utility keys of a snapshot. A single undecodable
// control entry discards the whole list.
func Ukeys(snap DeviceSnapshot) []Ukey {
	profile := snap.Profile

	var ukeys []Ukey
	for i := 0; i < profile.UkeysLimit; i++ {
		value, err := controlValue(profile.UkeysControl, i)
		if err != nil {
			log.Error("could not decode ukey control", "ukey", i+1, "err", err)
			return nil
		}
		name := labelAt(profile.UkeysLabels, i)
		if name == "" {
			log.Debug("ukey name not set, generating automatically", "ukey", i+1)
			name = fmt.Sprintf("Ukey %d", i+1)
		}
		ukeys = append(ukeys, Ukey{
			Name:   name,
			State:  value == 1,
			Number: i + 1,
		})
	}
	return ukeys
}

// AlarmTrigger returns the raw per-area trigger detail untouched; its shape
// is vendor-specific and handled downstream.
func AlarmTrigger(snap DeviceSnapshot) json.RawMessage {
	return snap.State.AreasDetail
}

func formatStamp(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Add(stampShift).Format(stampLayout)
}

func onOff(on bool) string {
	if on {
		return StateOn
	}
	return StateOff
}

func stringAt(list []string, i int) string {
	if i >= len(list) {
		return ""
	}
	return list[i]
}

func labelAt(list []string, i int) string {
	return strings.TrimSpace(stringAt(list, i))
}

func intAt(list []int, i int) int {
	if i >= len(list) {
		return 0
	}
	return list[i]
}

func powerKeys(power map[string]FlexInt) []string {
	keys := make([]string, 0, len(power))
	for key := range power {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func controlValue(list []any, i int) (int, error) {
	if i >= len(list) {
		return 0, fmt.Errorf("no control entry %d", i)
	}
	switch v := list[i].(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("could not parse control entry %d: %w", i, err)
		}
		return n, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("could not parse control entry %d: %w", i, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected control entry %d: %T", i, v)
	}
}
