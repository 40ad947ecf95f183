package exporter

import (
	"sync"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/collector"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const namespace = "soliscloud"

// CredentialLister is the part of repo.SolisCredentialRepo the exporter needs.
type CredentialLister interface {
	FindAll() ([]model.SolisCredential, error)
}

// SolisExporter implements prometheus.Collector. Every scrape collects a
// fresh snapshot for each stored credential.
type SolisExporter struct {
	credentials CredentialLister
	collector   *collector.SolisCollector
	logger      zerolog.Logger
	mu          sync.Mutex

	status            *prometheus.Desc
	stationPower      *prometheus.Desc
	stationEnergy     *prometheus.Desc
	inverterState     *prometheus.Desc
	inverterPower     *prometheus.Desc
	inverterEnergy    *prometheus.Desc
	inverterSoc       *prometheus.Desc
	scrapeSuccess     *prometheus.Desc
	credentialsLoaded *prometheus.Desc
}

func NewSolisExporter(credentials CredentialLister, clientOpts ...soliscloud.Option) *SolisExporter {
	return &SolisExporter{
		credentials: credentials,
		collector:   collector.NewSolisCollector(clientOpts...),
		logger:      zerolog.New(logger.NewWriter("solis_exporter.log")).With().Timestamp().Caller().Logger(),
		status: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "devices"),
			"Device count by kind and status as summarised by SolisCloud",
			[]string{"owner", "key_id", "kind", "status"},
			nil,
		),
		stationPower: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "station", "power"),
			"Current station power as reported by SolisCloud",
			[]string{"owner", "station_id", "station_name"},
			nil,
		),
		stationEnergy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "station", "energy"),
			"Station energy by period as reported by SolisCloud",
			[]string{"owner", "station_id", "station_name", "period"},
			nil,
		),
		inverterState: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inverter", "state"),
			"Inverter state (1=online, 2=offline, 3=alarm)",
			[]string{"owner", "inverter_sn", "station_id"},
			nil,
		),
		inverterPower: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inverter", "power"),
			"Current inverter AC output power as reported by SolisCloud",
			[]string{"owner", "inverter_sn", "station_id"},
			nil,
		),
		inverterEnergy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inverter", "energy"),
			"Inverter energy by period as reported by SolisCloud",
			[]string{"owner", "inverter_sn", "station_id", "period"},
			nil,
		),
		inverterSoc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inverter", "battery_soc_percent"),
			"Battery state of charge in percent",
			[]string{"owner", "inverter_sn", "station_id"},
			nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "scrape_success"),
			"Whether collecting from SolisCloud succeeded for the credential",
			[]string{"owner", "key_id"},
			nil,
		),
		credentialsLoaded: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "credentials"),
			"Number of SolisCloud credentials scraped",
			nil,
			nil,
		),
	}
}

func (e *SolisExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.status
	ch <- e.stationPower
	ch <- e.stationEnergy
	ch <- e.inverterState
	ch <- e.inverterPower
	ch <- e.inverterEnergy
	ch <- e.inverterSoc
	ch <- e.scrapeSuccess
	ch <- e.credentialsLoaded
}

func (e *SolisExporter) Collect(ch chan<- prometheus.Metric) {
	// scrapes are serialised
	e.mu.Lock()
	defer e.mu.Unlock()

	credentials, err := e.credentials.FindAll()
	if err != nil {
		e.logger.Error().Err(err).Msg("SolisExporter::Collect() - failed to find credentials")
		credentials = nil
	}
	ch <- prometheus.MustNewConstMetric(e.credentialsLoaded, prometheus.GaugeValue, float64(len(credentials)))

	for _, credential := range credentials {
		cred := credential
		snapshot, err := e.collector.Collect(&cred)
		if err != nil {
			e.logger.Error().Err(err).Str("key_id", cred.KeyID).Msg("SolisExporter::Collect() - failed to collect")
			ch <- prometheus.MustNewConstMetric(e.scrapeSuccess, prometheus.GaugeValue, 0, cred.Owner, cred.KeyID)
			continue
		}

		e.collectSnapshot(ch, snapshot)
		ch <- prometheus.MustNewConstMetric(e.scrapeSuccess, prometheus.GaugeValue, 1, cred.Owner, cred.KeyID)
	}
}

func (e *SolisExporter) collectSnapshot(ch chan<- prometheus.Metric, s *collector.Snapshot) {
	e.collectStatus(ch, s, "station", s.StationStatus)
	e.collectStatus(ch, s, "inverter", s.InverterStatus)
	e.collectStatus(ch, s, "epm", s.EPMStatus)

	for _, station := range s.Stations {
		ch <- prometheus.MustNewConstMetric(e.stationPower, prometheus.GaugeValue, station.Power, s.Owner, station.ID, station.StationName)
		for period, value := range map[string]float64{
			"day":   station.DayEnergy,
			"month": station.MonthEnergy,
			"year":  station.YearEnergy,
			"total": station.AllEnergy,
		} {
			ch <- prometheus.MustNewConstMetric(e.stationEnergy, prometheus.GaugeValue, value, s.Owner, station.ID, station.StationName, period)
		}
	}

	for _, inverter := range s.Inverters {
		ch <- prometheus.MustNewConstMetric(e.inverterState, prometheus.GaugeValue, float64(inverter.State), s.Owner, inverter.Sn, inverter.StationID)
		ch <- prometheus.MustNewConstMetric(e.inverterPower, prometheus.GaugeValue, inverter.Pac, s.Owner, inverter.Sn, inverter.StationID)
		ch <- prometheus.MustNewConstMetric(e.inverterSoc, prometheus.GaugeValue, inverter.BatteryCapacitySoc, s.Owner, inverter.Sn, inverter.StationID)
		for period, value := range map[string]float64{
			"day":   inverter.EToday,
			"month": inverter.EMonth,
			"year":  inverter.EYear,
			"total": inverter.ETotal,
		} {
			ch <- prometheus.MustNewConstMetric(e.inverterEnergy, prometheus.GaugeValue, value, s.Owner, inverter.Sn, inverter.StationID, period)
		}
	}
}

func (e *SolisExporter) collectStatus(ch chan<- prometheus.Metric, s *collector.Snapshot, kind string, status *soliscloud.StatusVo) {
	if status == nil {
		return
	}

	for name, count := range map[string]int{
		"all":      status.All,
		"normal":   status.Normal,
		"fault":    status.Fault,
		"offline":  status.Offline,
		"building": status.Building,
		"mppt":     status.Mppt,
	} {
		ch <- prometheus.MustNewConstMetric(e.status, prometheus.GaugeValue, float64(count), s.Owner, s.KeyID, kind, name)
	}
}
