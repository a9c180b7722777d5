package olarm

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	logp "github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"golang.org/x/exp/slices"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "olarm",
})

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://apiv4.olarm.co"

const timeout = 15 * time.Second

const (
	cmdAreaArm      = "area-arm"
	cmdAreaDisarm   = "area-disarm"
	cmdAreaStay     = "area-stay"
	cmdAreaSleep    = "area-sleep"
	cmdZoneBypass   = "zone-bypass"
	cmdPGMOpen      = "pgm-open"
	cmdPGMClose     = "pgm-close"
	cmdPGMPulse     = "pgm-pulse"
	cmdUkeyActivate = "ukey-activate"
)

// Commands that never change an area's armed state; LastActor ignores them.
var nonAreaCmds = []string{
	cmdZoneBypass,
	cmdPGMOpen,
	cmdPGMClose,
	cmdPGMPulse,
	cmdUkeyActivate,
}

// NoActor is reported when no qualifying action exists, or when the device
// generation does not expose an action history at all.
var NoActor = Actor{UserFullname: "No User"}

// Client talks to the Olarm API for a single device, authenticating every
// request with a static bearer token.
type Client struct {
	http     *resty.Client
	deviceID string
}

type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func New(deviceID, apiKey string, opts ...Option) *Client {
	r := resty.New()
	r.SetBaseURL(DefaultBaseURL)
	r.SetTimeout(timeout)
	r.SetHeader("Authorization", "Bearer "+apiKey)
	r.SetHeader("Accept", "application/json")

	cli := &Client{
		http:     r,
		deviceID: deviceID,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Device fetches the device snapshot.
func (c *Client) Device() (DeviceSnapshot, error) {
	var snap DeviceSnapshot
	resp, err := c.http.R().
		SetResult(&snap).
		Get("/api/v4/devices/" + c.deviceID)
	if err != nil {
		return DeviceSnapshot{}, fmt.Errorf("could not get device: %w", err)
	}
	if resp.IsError() {
		return DeviceSnapshot{}, fmt.Errorf("could not get device: %s", resp.Status())
	}
	return snap, nil
}

type devicesResponse struct {
	Data []DeviceSnapshot `json:"data"`
}

// AllDevices fetches every device the API key has access to.
func (c *Client) AllDevices() ([]DeviceSnapshot, error) {
	var devices devicesResponse
	resp, err := c.http.R().
		SetResult(&devices).
		Get("/api/v4/devices")
	if err != nil {
		return nil, fmt.Errorf("could not list devices: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("could not list devices: %s", resp.Status())
	}
	return devices.Data, nil
}

// CheckCredentials reports whether the device ID and API key grant access.
func (c *Client) CheckCredentials() bool {
	snap, err := c.Device()
	if err != nil {
		log.Error("could not check credentials", "err", err)
		return false
	}
	return snap.DeviceID != ""
}

// LastActor returns the most recent action that changed the given area's
// armed state. The earliest action wins a created-timestamp tie.
func (c *Client) LastActor(area int) Actor {
	best := NoActor

	var actions []Actor
	resp, err := c.http.R().
		SetResult(&actions).
		Get("/api/v4/devices/" + c.deviceID + "/actions")
	if err != nil {
		log.Error("could not get device actions", "err", err)
		return best
	}
	if resp.StatusCode() == http.StatusNotFound {
		log.Debug("actions endpoint returned 404")
		return best
	}
	if resp.IsError() {
		log.Error("could not get device actions", "status", resp.Status())
		return best
	}

	for _, action := range actions {
		if slices.Contains(nonAreaCmds, action.ActionCmd) {
			continue
		}
		if int(action.ActionNum) != area {
			continue
		}
		if best.ActionCreated < action.ActionCreated {
			best = action
		}
	}
	return best
}

type actionResponse struct {
	ActionStatus string `json:"actionStatus"`
}

// SendAction posts a command to the device and reports whether the vendor
// accepted it. Failures are logged, never returned.
func (c *Client) SendAction(action Action) bool {
	var result actionResponse
	resp, err := c.http.R().
		SetFormData(map[string]string{
			"actionCmd": action.Cmd,
			"actionNum": strconv.Itoa(action.Num),
		}).
		SetResult(&result).
		Post("/api/v4/devices/" + c.deviceID + "/actions")
	if err != nil {
		log.Error("could not send action", "cmd", action.Cmd, "num", action.Num, "err", err)
		return false
	}
	if resp.IsError() {
		log.Error("could not send action", "cmd", action.Cmd, "num", action.Num, "status", resp.Status())
		return false
	}
	return strings.EqualFold(result.ActionStatus, "ok")
}

// ArmArea fully arms an area.
func (c *Client) ArmArea(area int) bool {
	return c.SendAction(Action{Cmd: cmdAreaArm, Num: area})
}

// DisarmArea disarms an area.
func (c *Client) DisarmArea(area int) bool {
	return c.SendAction(Action{Cmd: cmdAreaDisarm, Num: area})
}

// StayArea arms an area in stay mode.
func (c *Client) StayArea(area int) bool {
	return c.SendAction(Action{Cmd: cmdAreaStay, Num: area})
}

// SleepArea arms an area in sleep mode.
func (c *Client) SleepArea(area int) bool {
	return c.SendAction(Action{Cmd: cmdAreaSleep, Num: area})
}

// BypassZone toggles the bypass state of a zone.
func (c *Client) BypassZone(zone int) bool {
	return c.SendAction(Action{Cmd: cmdZoneBypass, Num: zone})
}

// OpenPGM opens a programmable output.
func (c *Client) OpenPGM(pgm int) bool {
	return c.SendAction(Action{Cmd: cmdPGMOpen, Num: pgm})
}

// ClosePGM closes a programmable output.
func (c *Client) ClosePGM(pgm int) bool {
	return c.SendAction(Action{Cmd: cmdPGMClose, Num: pgm})
}

// PulsePGM pulses a programmable output.
func (c *Client) PulsePGM(pgm int) bool {
	return c.SendAction(Action{Cmd: cmdPGMPulse, Num: pgm})
}

// ActivateUkey activates a utility key.
func (c *Client) ActivateUkey(ukey int) bool {
	return c.SendAction(Action{Cmd: cmdUkeyActivate, Num: ukey})
}
