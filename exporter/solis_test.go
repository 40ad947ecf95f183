package exporter

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/api/soliscloud/soliscloudtest"
	"github.com/HavvokLab/solis-cloud/collector"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	credentials []model.SolisCredential
	err         error
}

func (f fakeLister) FindAll() ([]model.SolisCredential, error) {
	return f.credentials, f.err
}

func newTestExporter(lister CredentialLister) *SolisExporter {
	e := NewSolisExporter(lister, soliscloud.WithLogger(zerolog.Nop()), soliscloud.WithRetryInterval(time.Millisecond))
	e.logger = zerolog.Nop()
	e.collector.WithLogger(zerolog.Nop())
	return e
}

func TestSolisExporter_Describe(t *testing.T) {
	e := newTestExporter(fakeLister{})
	ch := make(chan *prometheus.Desc, 20)
	e.Describe(ch)
	close(ch)

	assert.Len(t, ch, 9)
}

func TestSolisExporter_Collect(t *testing.T) {
	srv := soliscloudtest.NewServer()
	defer srv.Close()
	srv.AddStation(map[string]any{"id": "1001", "stationName": "Roof", "state": 1, "power": 3.5, "dayEnergy": 12.25})
	srv.AddInverter(map[string]any{"id": "2001", "sn": "INV-A", "stationId": "1001", "state": 3, "pac": 1.25, "batteryCapacitySoc": 80})

	broken := soliscloudtest.NewServer()
	defer broken.Close()
	broken.Fail(soliscloud.URIStationList, http.StatusForbidden)

	e := newTestExporter(fakeLister{credentials: []model.SolisCredential{
		{KeyID: "good", KeySecret: "s", BaseURL: srv.URL, Owner: "acme"},
		{KeyID: "bad", KeySecret: "s", BaseURL: broken.URL, Owner: "acme"},
	}})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(e))

	expected := `
# HELP soliscloud_scrape_success Whether collecting from SolisCloud succeeded for the credential
# TYPE soliscloud_scrape_success gauge
soliscloud_scrape_success{key_id="bad",owner="acme"} 0
soliscloud_scrape_success{key_id="good",owner="acme"} 1
# HELP soliscloud_inverter_power Current inverter AC output power as reported by SolisCloud
# TYPE soliscloud_inverter_power gauge
soliscloud_inverter_power{inverter_sn="INV-A",owner="acme",station_id="1001"} 1.25
# HELP soliscloud_inverter_state Inverter state (1=online, 2=offline, 3=alarm)
# TYPE soliscloud_inverter_state gauge
soliscloud_inverter_state{inverter_sn="INV-A",owner="acme",station_id="1001"} 3
# HELP soliscloud_station_power Current station power as reported by SolisCloud
# TYPE soliscloud_station_power gauge
soliscloud_station_power{owner="acme",station_id="1001",station_name="Roof"} 3.5
# HELP soliscloud_credentials Number of SolisCloud credentials scraped
# TYPE soliscloud_credentials gauge
soliscloud_credentials 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"soliscloud_scrape_success",
		"soliscloud_inverter_power",
		"soliscloud_inverter_state",
		"soliscloud_station_power",
		"soliscloud_credentials",
	)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "soliscloud_devices")
	require.NoError(t, err)
	assert.Equal(t, 18, count)
}

func TestSolisExporter_CollectCredentialError(t *testing.T) {
	e := newTestExporter(fakeLister{err: errors.New("database locked")})

	assert.Equal(t, 1, testutil.CollectAndCount(e))
	assert.Equal(t, float64(0), testutil.ToFloat64(e))
}

type statusCollector struct {
	e      *SolisExporter
	status *soliscloud.StatusVo
}

func (c statusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.e.status
}

func (c statusCollector) Collect(ch chan<- prometheus.Metric) {
	c.e.collectStatus(ch, &collector.Snapshot{Owner: "acme", KeyID: "good"}, "inverter", c.status)
}

func TestSolisExporter_CollectStatus(t *testing.T) {
	e := newTestExporter(fakeLister{})
	c := statusCollector{e: e, status: &soliscloud.StatusVo{All: 7, Normal: 3, Fault: 1, Offline: 2, Building: 0, Mppt: 1}}

	expected := `
# HELP soliscloud_devices Device count by kind and status as summarised by SolisCloud
# TYPE soliscloud_devices gauge
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="all"} 7
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="building"} 0
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="fault"} 1
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="mppt"} 1
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="normal"} 3
soliscloud_devices{key_id="good",kind="inverter",owner="acme",status="offline"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "soliscloud_devices"))
}
