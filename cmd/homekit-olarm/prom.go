package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var armStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "alarm",
	Name:        "state",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"area"})

var openGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "alarm",
	Name:        "open",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"name"})

var bypassedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "alarm",
	Name:        "bypassed",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"name"})

var powerGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "alarm",
	Name:        "powered",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"source"})

var pollCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "client",
	Name:        "polls_total",
	Help:        "",
	ConstLabels: map[string]string{},
})

var pollErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "homekit_olarm",
	Subsystem:   "client",
	Name:        "poll_errors_total",
	Help:        "",
	ConstLabels: map[string]string{},
})
