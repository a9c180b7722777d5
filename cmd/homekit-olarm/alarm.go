package main

import (
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
	client "github.com/hennop/homekit-olarm"
)

type SecuritySystem struct {
	*accessory.A
	SecuritySystem *service.SecuritySystem

	area client.Area
	cli  *client.Client
}

func NewSecuritySystem(info accessory.Info, cli *client.Client, area client.Area) *SecuritySystem {
	a := &SecuritySystem{
		area: area,
		cli:  cli,
	}
	a.A = accessory.New(info, accessory.TypeSecuritySystem)

	a.SecuritySystem = service.NewSecuritySystem()
	a.AddS(a.SecuritySystem.S)

	a.SecuritySystem.SecuritySystemTargetState.SetValueRequestFunc = a.updateHandler

	if state := areaHomekitState(area.State); state >= 0 {
		err := a.SecuritySystem.SecuritySystemTargetState.SetValue(state)
		log.Info("set target state", "area", area.Name, "state", state, "err", err)
	}

	return a
}

func (a *SecuritySystem) Update(area client.Area) {
	a.area = area

	state := areaHomekitState(area.State)
	armStateGauge.WithLabelValues(area.Name).Set(float64(state))
	if state < 0 {
		log.Debug("area state has no homekit equivalent", "area", area.Name, "state", area.State)
		return
	}

	if a.SecuritySystem.SecuritySystemCurrentState.Value() == state {
		return
	}
	err := a.SecuritySystem.SecuritySystemCurrentState.SetValue(state)
	actor := a.cli.LastActor(area.Number)
	log.Info(
		"set current state",
		"area", area.Name,
		"state", area.State,
		"changed-by", actor.UserFullname,
		"err", err,
	)
}

func (a *SecuritySystem) updateHandler(
	v interface{},
	_ *http.Request,
) (response interface{}, code int) {
	var ok bool
	switch v.(int) {
	case characteristic.SecuritySystemTargetStateStayArm:
		log.Info("arm stay", "area", a.area.Number)
		ok = a.cli.StayArea(a.area.Number)
	case characteristic.SecuritySystemTargetStateAwayArm:
		log.Info("arm away", "area", a.area.Number)
		ok = a.cli.ArmArea(a.area.Number)
	case characteristic.SecuritySystemTargetStateNightArm:
		log.Info("arm sleep", "area", a.area.Number)
		ok = a.cli.SleepArea(a.area.Number)
	case characteristic.SecuritySystemTargetStateDisarm:
		log.Info("disarm", "area", a.area.Number)
		ok = a.cli.DisarmArea(a.area.Number)
	default:
		return nil, hap.JsonStatusResourceDoesNotExist
	}
	if !ok {
		log.Error("vendor rejected the command", "area", a.area.Number, "target", v)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

func setupAreas(cli *client.Client, snap client.DeviceSnapshot) []*SecuritySystem {
	var alarms []*SecuritySystem
	for i, area := range client.Areas(snap) {
		a := NewSecuritySystem(accessory.Info{
			Name:         area.Name,
			SerialNumber: snap.DeviceSerial,
			Manufacturer: manufacturer,
			Model:        snap.DeviceAlarmType,
		}, cli, area)
		a.Id = uint64(2 + i)
		alarms = append(alarms, a)
	}
	return alarms
}
