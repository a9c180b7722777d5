package main

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/caarlos0/env/v11"
	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
	client "github.com/hennop/homekit-olarm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed index.html
var index []byte

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "homekit",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const manufacturer = "Olarm"

func main() {
	log.Info(
		"homekit-olarm",
		"version", version,
		"commit", commit,
		"date", date,
		"info", "Homekit bridge for Olarm-connected alarm systems",
	)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(
			"could not parse env",
			"err",
			strings.TrimPrefix(strings.ReplaceAll(err.Error(), "; ", "\n"), "env: ")+"\n",
		)
	}

	var opts []client.Option
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}

	if cfg.DeviceID == "" {
		listDevices(client.New("", cfg.APIKey, opts...))
		return
	}

	cli := client.New(cfg.DeviceID, cfg.APIKey, opts...)
	fetch := func() (client.DeviceSnapshot, error) {
		bo := backoff.NewExponentialBackOff()
		bo.MaxInterval = time.Second * 5
		bo.MaxElapsedTime = time.Minute

		var snap client.DeviceSnapshot
		err := backoff.RetryNotify(func() error {
			pollCounter.Inc()
			s, err := cli.Device()
			if err != nil {
				pollErrorCounter.Inc()
				return err
			}
			snap = s
			return nil
		}, bo, func(err error, _ time.Duration) {
			log.Error("could not get device state", "err", err)
		})
		return snap, err
	}

	snap, err := fetch()
	if err != nil {
		log.Fatal("could not init accessories", "err", err)
	}
	log.Info(
		"got alarm system information",
		"manufacturer", manufacturer,
		"name", snap.DeviceName,
		"model", snap.DeviceAlarmType,
		"serial", snap.DeviceSerial,
		"status", snap.DeviceStatus,
	)
	log.Info(
		"loading accessories",
		"areas", len(client.Areas(snap)),
		"zones", allZoneConfigs(cfg.zones(client.ZoneSensors(snap), snap.Profile.ZonesLimit)).String(),
	)

	bridge := accessory.NewBridge(accessory.Info{
		Name:         "Olarm Bridge",
		SerialNumber: snap.DeviceSerial,
		Manufacturer: manufacturer,
		Firmware:     version,
	})

	alarms := setupAreas(cli, snap)
	sensors := setupZones(cli, cfg, snap)
	power := setupPowerSensors(snap)
	pgms := setupPGMs(cli, snap)
	ukeys := setupUkeys(cli, snap)

	var latestLock sync.Mutex
	latest := snap

	go func() {
		tick := time.NewTicker(cfg.PollInterval)
		for range tick.C {
			snap, err := fetch()
			if err != nil {
				log.Error("could not get device state", "err", err)
				continue
			}

			latestLock.Lock()
			latest = snap
			latestLock.Unlock()

			for _, rec := range client.Areas(snap) {
				for _, alarm := range alarms {
					if alarm.area.Number == rec.Number {
						alarm.Update(rec)
					}
				}
			}

			zones := client.ZoneSensors(snap)
			bypass := client.BypassStates(snap)
			for i, sensor := range sensors {
				if i < len(zones) && i < len(bypass) {
					sensor.Update(zones[i], bypass[i])
				}
			}

			records := powerRecords(snap)
			for _, sensor := range power {
				for _, rec := range records {
					if sensor.Name() == rec.Name {
						sensor.Update(rec)
					}
				}
			}

			for _, rec := range client.PGMs(snap) {
				for _, sw := range pgms {
					if sw.number == rec.Number {
						sw.Update(rec)
					}
				}
			}
		}
	}()

	fs := hap.NewFsStore("./db")

	server, err := hap.NewServer(
		fs, bridge.A,
		securityAccessories(alarms, sensors, power, pgms, ukeys)...,
	)
	if err != nil {
		log.Fatal("fail to create server", "error", err)
	}
	server.Addr = cfg.Address
	server.ServeMux().Handle("/metrics", promhttp.Handler())
	server.ServeMux().Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		latestLock.Lock()
		snap := latest
		latestLock.Unlock()

		zones := client.ZoneSensors(snap)
		bypass := client.BypassStates(snap)
		var hZones []ZoneItem
		for i := 0; i < snap.Profile.ZonesLimit && i < len(zones); i++ {
			item := ZoneItem{
				Number:      i + 1,
				Name:        zones[i].Name,
				State:       zones[i].State,
				LastChanged: zones[i].LastChanged,
			}
			if i < len(bypass) {
				item.Bypassed = bypass[i].State == client.StateOn
			}
			hZones = append(hZones, item)
		}

		tpl := template.Must(template.New("index").Parse(string(index)))
		_ = tpl.Execute(w, struct {
			Areas []client.Area
			Zones []ZoneItem
			PGMs  []client.PGM
			Ukeys []client.Ukey
		}{
			Areas: client.Areas(snap),
			Zones: hZones,
			PGMs:  client.PGMs(snap),
			Ukeys: client.Ukeys(snap),
		})
	}))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-c
		log.Info("stopping server")
		signal.Stop(c)
		cancel()
	}()

	log.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to close server", "err", err)
	}
}

func listDevices(cli *client.Client) {
	devices, err := cli.AllDevices()
	if err != nil {
		log.Fatal("could not list devices", "err", err)
	}
	if len(devices) == 0 {
		log.Fatal("no devices are linked to this API key")
	}
	for _, device := range devices {
		log.Info(
			"found device",
			"id", device.DeviceID,
			"name", device.DeviceName,
			"model", device.DeviceAlarmType,
			"status", device.DeviceStatus,
		)
	}
	log.Fatal("set DEVICE_ID to one of the devices above")
}

func securityAccessories(
	alarms []*SecuritySystem,
	sensors []*AlarmSensor,
	power []*PowerSensor,
	pgms []*PGMSwitch,
	ukeys []*accessory.Switch,
) []*accessory.A {
	var result []*accessory.A
	for _, c := range alarms {
		result = append(result, c.A)
	}
	for _, c := range sensors {
		result = append(result, c.A)
	}
	for _, c := range power {
		result = append(result, c.A)
	}
	for _, c := range pgms {
		result = append(result, c.Switch.A)
	}
	for _, c := range ukeys {
		result = append(result, c.A)
	}
	return result
}

func boolAs[T int | float64](b bool) T {
	if b {
		return 1
	}
	return 0
}

type ZoneItem struct {
	Number      int
	Name        string
	State       string
	Bypassed    bool
	LastChanged string
}
