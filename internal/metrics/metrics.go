// internal/metrics/metrics.go

// Package metrics exports device readings as Prometheus gauges. All
// collectors live on a private registry so tests and embedding apps
// never collide with the global one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

// Metrics holds the registry and all heat pump collectors.
type Metrics struct {
	reg *prometheus.Registry

	flowTemp      prometheus.Gauge
	returnTemp    prometheus.Gauge
	outdoorTemp   prometheus.Gauge
	targetTemp    prometheus.Gauge
	tempDelta     prometheus.Gauge
	flowRate      prometheus.Gauge
	waterPressure prometheus.Gauge

	powerState    prometheus.Gauge
	compressorOn  prometheus.Gauge
	waterPumpOn   prometheus.Gauge
	operatingMode prometheus.Gauge
	errorCode     prometheus.Gauge

	pollFailures prometheus.Counter
	reconnects   prometheus.Counter
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

// New builds all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),

		flowTemp:      gauge("heatpump_flow_temperature_celsius", "Flow temperature (water outlet)"),
		returnTemp:    gauge("heatpump_return_temperature_celsius", "Return temperature (water inlet)"),
		outdoorTemp:   gauge("heatpump_outdoor_temperature_celsius", "Outdoor air temperature"),
		targetTemp:    gauge("heatpump_target_temperature_celsius", "Target temperature setpoint"),
		tempDelta:     gauge("heatpump_temperature_delta_celsius", "Temperature delta (flow - return)"),
		flowRate:      gauge("heatpump_flow_rate_lpm", "Water flow rate (l/min)"),
		waterPressure: gauge("heatpump_water_pressure_bar", "Water pressure (bar)"),

		powerState:    gauge("heatpump_power_state", "Power state (0=OFF, 1=ON)"),
		compressorOn:  gauge("heatpump_compressor_running", "Compressor running (0=OFF, 1=ON)"),
		waterPumpOn:   gauge("heatpump_water_pump_running", "Water pump running (0=OFF, 1=ON)"),
		operatingMode: gauge("heatpump_operating_mode", "Operating mode (0=Standby, 1=Cooling, 2=Heating, 3=Auto)"),
		errorCode:     gauge("heatpump_error_code", "Error code (0=no error)"),

		pollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heatpump_poll_failures_total",
			Help: "Failed poll cycles",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heatpump_reconnects_total",
			Help: "Connection rebuilds after repeated poll failures",
		}),
	}

	m.reg.MustRegister(
		m.flowTemp, m.returnTemp, m.outdoorTemp, m.targetTemp, m.tempDelta,
		m.flowRate, m.waterPressure,
		m.powerState, m.compressorOn, m.waterPumpOn, m.operatingMode, m.errorCode,
		m.pollFailures, m.reconnects,
	)
	return m
}

// ObserveSnapshot updates all gauges from one published snapshot.
func (m *Metrics) ObserveSnapshot(s status.Snapshot) {
	m.flowTemp.Set(s.FlowTemp)
	m.returnTemp.Set(s.ReturnTemp)
	m.outdoorTemp.Set(s.OutdoorTemp)
	m.targetTemp.Set(s.TargetTemp)
	m.tempDelta.Set(s.Delta())
	m.flowRate.Set(s.FlowRate)
	m.waterPressure.Set(s.WaterPressure)

	m.powerState.Set(boolGauge(s.PowerOn))
	m.compressorOn.Set(boolGauge(s.CompressorOn))
	m.waterPumpOn.Set(boolGauge(s.WaterPumpOn))
	m.operatingMode.Set(float64(s.OperatingMode))
	m.errorCode.Set(float64(s.ErrorCode))
}

// PollFailure counts one failed poll cycle.
func (m *Metrics) PollFailure() { m.pollFailures.Inc() }

// Reconnect counts one connection rebuild.
func (m *Metrics) Reconnect() { m.reconnects.Inc() }

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
