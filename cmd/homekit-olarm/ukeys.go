package main

import (
	"net/http"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	client "github.com/hennop/homekit-olarm"
)

// Utility keys are stateless triggers: the switch turns on, fires
// ukey-activate, and snaps back off.
func setupUkeys(cli *client.Client, snap client.DeviceSnapshot) []*accessory.Switch {
	var switches []*accessory.Switch
	for i, ukey := range client.Ukeys(snap) {
		ukey := ukey

		a := accessory.NewSwitch(accessory.Info{
			Name:         ukey.Name,
			Manufacturer: manufacturer,
		})
		a.Id = uint64(400 + i)

		a.Switch.On.SetValueRequestFunc = func(value interface{}, _ *http.Request) (response interface{}, code int) {
			if !value.(bool) {
				return nil, hap.JsonStatusSuccess
			}
			log.Info("activate ukey", "ukey", ukey.Number)
			if !cli.ActivateUkey(ukey.Number) {
				log.Error("failed to activate ukey", "ukey", ukey.Number)
				return nil, hap.JsonStatusResourceBusy
			}
			go func() {
				time.Sleep(time.Second)
				a.Switch.On.SetValue(false)
			}()
			return nil, hap.JsonStatusSuccess
		}

		switches = append(switches, a)
	}
	return switches
}
