package olarm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSnapshot() DeviceSnapshot {
	return DeviceSnapshot{
		DeviceID: "abc-123",
		State: DeviceState{
			Zones:      []string{"a", "B", "b", "c"},
			ZonesStamp: []FlexInt{0, 0, 0, 0},
			Areas:      []string{"disarm"},
			PGM:        []string{"a", "c", "A"},
			Power: map[string]FlexInt{
				"AC":   1,
				"Batt": 0,
			},
		},
		Profile: DeviceProfile{
			ZonesLimit:   4,
			ZonesLabels:  []string{"Front Door", "", "   ", "Garage"},
			ZonesTypes:   []int{21, 20, 20, 10},
			AreasLimit:   2,
			AreasLabels:  []string{"House", "Flat"},
			PGMLimit:     3,
			PGMLabels:    []string{"Gate", "", "Pool Pump"},
			PGMControl:   []string{"101", "", "100"},
			UkeysLimit:   2,
			UkeysLabels:  []string{"Panic", ""},
			UkeysControl: []any{float64(1), "0"},
		},
	}
}

func TestZoneSensors(t *testing.T) {
	sensors := ZoneSensorsIn(testSnapshot(), time.UTC)

	require.Equal(t, []ZoneSensor{
		{Name: "Front Door", State: "on", LastChanged: "Thu 01 Jan 1970 02:00:00", Type: 21},
		{Name: "Zone 2", State: "off", LastChanged: "Thu 01 Jan 1970 02:00:00"},
		{Name: "Zone 3", State: "off", LastChanged: "Thu 01 Jan 1970 02:00:00"},
		{Name: "Garage", State: "off", LastChanged: "Thu 01 Jan 1970 02:00:00", Type: 10},
		{Name: "Powered by AC", State: "on", Type: 1000},
		{Name: "Powered by Battery", State: "off", Type: 1001},
	}, sensors)
}

func TestZoneSensorsShortArrays(t *testing.T) {
	snap := testSnapshot()
	snap.State.Zones = []string{"a"}
	snap.State.ZonesStamp = []FlexInt{1262296800000}
	snap.State.Power = nil
	snap.Profile.ZonesLabels = []string{"Front Door"}
	snap.Profile.ZonesTypes = nil

	sensors := ZoneSensorsIn(snap, time.UTC)

	// missing codes read as off, missing stamps as never changed, and a
	// missing type defaults to zero
	require.Equal(t, []ZoneSensor{
		{Name: "Front Door", State: "on", LastChanged: "Fri 01 Jan 2010 00:00:00"},
		{Name: "Zone 2", State: "off"},
		{Name: "Zone 3", State: "off"},
		{Name: "Zone 4", State: "off"},
	}, sensors)
}

func TestBypassStates(t *testing.T) {
	states := BypassStatesIn(testSnapshot(), time.UTC)

	require.Equal(t, []BypassState{
		{Name: "Front Door", State: "off", LastChanged: "Thu 01 Jan 1970 02:00:00"},
		{Name: "Zone 2", State: "on", LastChanged: "Thu 01 Jan 1970 02:00:00"},
		{Name: "Zone 3", State: "on", LastChanged: "Thu 01 Jan 1970 02:00:00"},
		{Name: "Garage", State: "off", LastChanged: "Thu 01 Jan 1970 02:00:00"},
	}, states)
}

func TestZoneAndBypassDisjoint(t *testing.T) {
	// a zone code is either active or bypassed, never both
	snap := testSnapshot()
	zones := ZoneSensorsIn(snap, time.UTC)
	bypass := BypassStatesIn(snap, time.UTC)
	for i := range bypass {
		require.False(t, zones[i].State == StateOn && bypass[i].State == StateOn,
			"zone %d reported on in both lists", i+1)
	}
}

func TestAreas(t *testing.T) {
	t.Run("live state missing", func(t *testing.T) {
		// profile declares two areas but the device reports one
		require.Equal(t, []Area{
			{Name: "House", State: "disarm", Number: 1},
		}, Areas(testSnapshot()))
	})

	t.Run("label missing", func(t *testing.T) {
		snap := testSnapshot()
		snap.State.Areas = []string{"arm", "stay"}
		snap.Profile.AreasLabels = []string{"House"}
		require.Equal(t, []Area{
			{Name: "House", State: "arm", Number: 1},
			{Name: "Area 2", State: "stay", Number: 2},
		}, Areas(snap))
	})
}

func TestPGMs(t *testing.T) {
	require.Equal(t, []PGM{
		{Name: "Gate", Enabled: true, Pulse: true, State: true, Number: 1},
		{Name: "Pool Pump", Enabled: true, Pulse: false, State: true, Number: 3},
	}, PGMs(testSnapshot()))
}

func TestPGMsShortControl(t *testing.T) {
	snap := testSnapshot()
	snap.Profile.PGMControl = []string{"10", "0", "101"}

	// "10" has no pulse position and "0" has neither, so both drop
	require.Equal(t, []PGM{
		{Name: "Pool Pump", Enabled: true, Pulse: true, State: true, Number: 3},
	}, PGMs(snap))
}

func TestUkeys(t *testing.T) {
	require.Equal(t, []Ukey{
		{Name: "Panic", State: true, Number: 1},
		{Name: "Ukey 2", State: false, Number: 2},
	}, Ukeys(testSnapshot()))
}

func TestUkeysFailFast(t *testing.T) {
	t.Run("garbage entry", func(t *testing.T) {
		snap := testSnapshot()
		snap.Profile.UkeysControl = []any{float64(1), "not a number"}
		require.Empty(t, Ukeys(snap))
	})

	t.Run("entry missing", func(t *testing.T) {
		snap := testSnapshot()
		snap.Profile.UkeysControl = []any{float64(1)}
		require.Empty(t, Ukeys(snap))
	})
}

func TestAlarmTrigger(t *testing.T) {
	detail := json.RawMessage(`[{"zones":[1,2]}]`)
	snap := testSnapshot()
	snap.State.AreasDetail = detail
	require.Equal(t, detail, AlarmTrigger(snap))
}

func TestFlexInt(t *testing.T) {
	var state DeviceState
	require.NoError(t, json.Unmarshal([]byte(`{
		"zonesStamp": [1618400000000, "1618400001000", null, true],
		"power": {"AC": "1", "Batt": 0}
	}`), &state))

	require.Equal(t, []FlexInt{1618400000000, 1618400001000, 0, 0}, state.ZonesStamp)
	require.Equal(t, map[string]FlexInt{"AC": 1, "Batt": 0}, state.Power)
}
