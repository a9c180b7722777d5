package main

import (
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/service"
	client "github.com/hennop/homekit-olarm"
)

type AlarmSensor struct {
	*accessory.A
	Kind    zoneKind
	Motion  *service.MotionSensor
	Contact *service.ContactSensor
	Bypass  *service.Switch
}

func newAlarmSensor(info accessory.Info, kind zoneKind, allowBypass bool) *AlarmSensor {
	a := AlarmSensor{
		Kind: kind,
	}
	a.A = accessory.New(info, accessory.TypeSensor)

	switch kind {
	case kindMotion:
		a.Motion = service.NewMotionSensor()
		a.AddS(a.Motion.S)
	default:
		a.Contact = service.NewContactSensor()
		a.AddS(a.Contact.S)
	}

	if allowBypass {
		a.Bypass = service.NewSwitch()
		a.AddS(a.Bypass.S)
	}

	return &a
}

func (sensor *AlarmSensor) Update(zone client.ZoneSensor, bypass client.BypassState) {
	open := zone.State == client.StateOn
	openGauge.WithLabelValues(zone.Name).Set(boolAs[float64](open))

	switch sensor.Kind {
	case kindMotion:
		if v := sensor.Motion.MotionDetected.Value(); v != open {
			sensor.Motion.MotionDetected.SetValue(open)
			log.Info("motion", "zone", zone.Name, "open", open, "changed", zone.LastChanged)
		}
	default:
		if v := sensor.Contact.ContactSensorState.Value(); v != boolAs[int](open) {
			_ = sensor.Contact.ContactSensorState.SetValue(boolAs[int](open))
			log.Info("contact", "zone", zone.Name, "open", open, "changed", zone.LastChanged)
		}
	}

	bypassing := bypass.State == client.StateOn
	bypassedGauge.WithLabelValues(zone.Name).Set(boolAs[float64](bypassing))
	if sensor.Bypass == nil {
		return
	}
	// the bypass switch shows on while the zone participates in the alarm
	if sensor.Bypass.On.Value() == bypassing {
		sensor.Bypass.On.SetValue(!bypassing)
		log.Info("bypass", "zone", zone.Name, "bypassed", bypassing)
	}
}

func setupZones(cli *client.Client, cfg Config, snap client.DeviceSnapshot) []*AlarmSensor {
	zones := client.ZoneSensors(snap)
	bypass := client.BypassStates(snap)

	var sensors []*AlarmSensor
	for i, zone := range cfg.zones(zones, snap.Profile.ZonesLimit) {
		zone := zone

		a := newAlarmSensor(accessory.Info{
			Name:         zone.name,
			Manufacturer: manufacturer,
		}, zone.kind, zone.allowBypass)
		a.Id = uint64(100 + i)

		if a.Bypass != nil {
			a.Bypass.On.SetValueRequestFunc = func(value interface{}, _ *http.Request) (response interface{}, code int) {
				v := value.(bool)
				log.Info("set zone bypass", "zone", zone.number, "bypass", !v)
				if !cli.BypassZone(zone.number) {
					log.Error("failed to set bypass", "zone", zone.number, "value", v)
					return nil, hap.JsonStatusResourceBusy
				}
				return nil, hap.JsonStatusSuccess
			}
		}

		if i < len(zones) && i < len(bypass) {
			a.Update(zones[i], bypass[i])
		}
		sensors = append(sensors, a)
	}
	return sensors
}

// PowerSensor shows one of the panel's power sources (mains, battery) as a
// contact sensor: closed while the panel is powered by it.
type PowerSensor struct {
	*accessory.A
	Contact *service.ContactSensor
}

func newPowerSensor(info accessory.Info) *PowerSensor {
	a := PowerSensor{}
	a.A = accessory.New(info, accessory.TypeSensor)

	a.Contact = service.NewContactSensor()
	a.AddS(a.Contact.S)

	return &a
}

func (sensor *PowerSensor) Update(record client.ZoneSensor) {
	powered := record.State == client.StateOn
	powerGauge.WithLabelValues(record.Name).Set(boolAs[float64](powered))
	if v := sensor.Contact.ContactSensorState.Value(); v != boolAs[int](!powered) {
		_ = sensor.Contact.ContactSensorState.SetValue(boolAs[int](!powered))
		log.Info("power source", "name", record.Name, "powered", powered)
	}
}

// powerRecords returns the trailing synthetic power-source records of the
// normalized zone list.
func powerRecords(snap client.DeviceSnapshot) []client.ZoneSensor {
	zones := client.ZoneSensors(snap)
	if len(zones) <= snap.Profile.ZonesLimit {
		return nil
	}
	return zones[snap.Profile.ZonesLimit:]
}

func setupPowerSensors(snap client.DeviceSnapshot) []*PowerSensor {
	var sensors []*PowerSensor
	for i, record := range powerRecords(snap) {
		a := newPowerSensor(accessory.Info{
			Name:         record.Name,
			Manufacturer: manufacturer,
		})
		a.Id = uint64(200 + i)
		a.Update(record)
		sensors = append(sensors, a)
	}
	return sensors
}
