package olarm

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DeviceSnapshot is the raw payload of a single device: live values under
// deviceState, static panel configuration under deviceProfile.
type DeviceSnapshot struct {
	DeviceID        string        `json:"deviceId"`
	DeviceName      string        `json:"deviceName"`
	DeviceSerial    string        `json:"deviceSerial"`
	DeviceAlarmType string        `json:"deviceAlarmType"`
	DeviceStatus    string        `json:"deviceStatus"`
	State           DeviceState   `json:"deviceState"`
	Profile         DeviceProfile `json:"deviceProfile"`
}

// DeviceState holds the live panel values. Zones, areas and PGMs are
// positional arrays of single-letter state codes.
type DeviceState struct {
	Zones       []string           `json:"zones"`
	ZonesStamp  []FlexInt          `json:"zonesStamp"`
	Areas       []string           `json:"areas"`
	AreasDetail json.RawMessage    `json:"areasDetail"`
	PGM         []string           `json:"pgm"`
	Power       map[string]FlexInt `json:"power"`
}

// DeviceProfile holds the static panel configuration. The arrays may be
// shorter than the declared limits; callers must bounds-check.
type DeviceProfile struct {
	ZonesLimit   int      `json:"zonesLimit"`
	ZonesLabels  []string `json:"zonesLabels"`
	ZonesTypes   []int    `json:"zonesTypes"`
	AreasLimit   int      `json:"areasLimit"`
	AreasLabels  []string `json:"areasLabels"`
	PGMLimit     int      `json:"pgmLimit"`
	PGMLabels    []string `json:"pgmLabels"`
	PGMControl   []string `json:"pgmControl"`
	UkeysLimit   int      `json:"ukeysLimit"`
	UkeysLabels  []string `json:"ukeysLabels"`
	UkeysControl []any    `json:"ukeysControl"`
}

// FlexInt decodes vendor fields that are sometimes JSON numbers and
// sometimes numeric strings. Anything else decodes to zero.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Zone and bypass sensor states.
const (
	StateOn  = "on"
	StateOff = "off"
)

// Types of the synthetic power-source records appended to the zone sensor
// list. Regular zones carry the panel's own zone type instead.
const (
	TypePowerSource = 1000
	TypeBattery     = 1001
)

// ZoneSensor is the normalized state of one zone, or of one power source
// (mains, battery) for the trailing synthetic records.
type ZoneSensor struct {
	Name        string
	State       string
	LastChanged string
	Type        int
}

// BypassState reports whether a zone is bypassed.
type BypassState struct {
	Name        string
	State       string
	LastChanged string
}

// Area is one panel area. State is the vendor code verbatim ("arm",
// "disarm", "stay", "sleep", "alarm", ...); it carries richer semantics
// than on/off and is mapped downstream.
type Area struct {
	Name   string
	State  string
	Number int
}

// PGM is one programmable output.
type PGM struct {
	Name    string
	Enabled bool
	Pulse   bool
	State   bool
	Number  int
}

// Ukey is one utility key.
type Ukey struct {
	Name   string
	State  bool
	Number int
}

// Actor is one entry of the device action history.
type Actor struct {
	UserFullname  string  `json:"userFullname"`
	ActionCmd     string  `json:"actionCmd"`
	ActionNum     FlexInt `json:"actionNum"`
	ActionCreated FlexInt `json:"actionCreated"`
}

// Action is a command for the panel: a fixed command string plus the
// 1-based area, zone, PGM or ukey number it applies to.
type Action struct {
	Cmd string
	Num int
}
