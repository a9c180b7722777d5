package main

import (
	"net/http"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	client "github.com/hennop/homekit-olarm"
)

type PGMSwitch struct {
	*accessory.Switch
	number int
	pulse  bool
}

func (s *PGMSwitch) Update(pgm client.PGM) {
	// pulse outputs snap back by themselves; their live state is
	// meaningless
	if s.pulse {
		return
	}
	if v := s.Switch.Switch.On.Value(); v != pgm.State {
		s.Switch.Switch.On.SetValue(pgm.State)
		log.Info("pgm", "name", pgm.Name, "open", pgm.State)
	}
}

func setupPGMs(cli *client.Client, snap client.DeviceSnapshot) []*PGMSwitch {
	var switches []*PGMSwitch
	for i, pgm := range client.PGMs(snap) {
		if !pgm.Enabled {
			continue
		}
		pgm := pgm

		a := &PGMSwitch{
			Switch: accessory.NewSwitch(accessory.Info{
				Name:         pgm.Name,
				Manufacturer: manufacturer,
			}),
			number: pgm.Number,
			pulse:  pgm.Pulse,
		}
		a.Switch.Id = uint64(300 + i)
		a.Switch.Switch.On.SetValue(pgm.State)

		a.Switch.Switch.On.SetValueRequestFunc = func(value interface{}, _ *http.Request) (response interface{}, code int) {
			v := value.(bool)
			ok := false
			switch {
			case pgm.Pulse:
				if !v {
					return nil, hap.JsonStatusSuccess
				}
				log.Info("pulse pgm", "pgm", pgm.Number)
				ok = cli.PulsePGM(pgm.Number)
				if ok {
					go a.reset()
				}
			case v:
				log.Info("open pgm", "pgm", pgm.Number)
				ok = cli.OpenPGM(pgm.Number)
			default:
				log.Info("close pgm", "pgm", pgm.Number)
				ok = cli.ClosePGM(pgm.Number)
			}
			if !ok {
				log.Error("failed to switch pgm", "pgm", pgm.Number, "value", v)
				return nil, hap.JsonStatusResourceBusy
			}
			return nil, hap.JsonStatusSuccess
		}

		switches = append(switches, a)
	}
	return switches
}

func (s *PGMSwitch) reset() {
	time.Sleep(time.Second)
	s.Switch.Switch.On.SetValue(false)
}
