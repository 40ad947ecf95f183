package collector

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"go.openly.dev/pointy"
)

// Snapshot is everything one credential can see at a point in time.
type Snapshot struct {
	Timestamp      time.Time
	Owner          string
	KeyID          string
	StationStatus  *soliscloud.StatusVo
	InverterStatus *soliscloud.StatusVo
	EPMStatus      *soliscloud.StatusVo
	Stations       []soliscloud.Station
	Inverters      []soliscloud.Inverter
	EPMs           []soliscloud.EPM
}

type SolisCollector struct {
	vendorType string
	clientOpts []soliscloud.Option
	logger     zerolog.Logger
}

func NewSolisCollector(clientOpts ...soliscloud.Option) *SolisCollector {
	return &SolisCollector{
		vendorType: strings.ToUpper(model.VendorTypeSolis),
		clientOpts: clientOpts,
		logger:     zerolog.New(logger.NewWriter("solis_collector.log")).With().Timestamp().Caller().Logger(),
	}
}

func (s *SolisCollector) WithLogger(l zerolog.Logger) *SolisCollector {
	s.logger = l
	return s
}

func (s *SolisCollector) client(credential *model.SolisCredential) *soliscloud.SolisClient {
	opts := append(append([]soliscloud.Option{}, s.clientOpts...), soliscloud.WithBaseURL(credential.BaseURL))
	return soliscloud.NewSolisClient(credential.KeyID, credential.KeySecret, opts...)
}

func (s *SolisCollector) Collect(credential *model.SolisCredential) (*Snapshot, error) {
	client := s.client(credential)
	snapshot := &Snapshot{Timestamp: time.Now().UTC(), Owner: credential.Owner, KeyID: credential.KeyID}

	var err error
	snapshot.StationStatus, snapshot.Stations, err = client.ListStations()
	if err != nil {
		s.logger.Error().Err(err).Str("key_id", credential.KeyID).Msg("SolisCollector::Collect() - failed to list stations")
		return nil, fmt.Errorf("list stations: %w", err)
	}

	snapshot.InverterStatus, snapshot.Inverters, err = client.ListInverters()
	if err != nil {
		s.logger.Error().Err(err).Str("key_id", credential.KeyID).Msg("SolisCollector::Collect() - failed to list inverters")
		return nil, fmt.Errorf("list inverters: %w", err)
	}

	snapshot.EPMStatus, snapshot.EPMs, err = client.ListEPMs()
	if err != nil {
		s.logger.Error().Err(err).Str("key_id", credential.KeyID).Msg("SolisCollector::Collect() - failed to list epms")
		return nil, fmt.Errorf("list epms: %w", err)
	}

	s.logger.Info().
		Str("key_id", credential.KeyID).
		Str("owner", credential.Owner).
		Int("station_count", len(snapshot.Stations)).
		Int("inverter_count", len(snapshot.Inverters)).
		Int("epm_count", len(snapshot.EPMs)).
		Msg("SolisCollector::Collect() - done")

	return snapshot, nil
}

func (s *Snapshot) StationItems() []model.StationItem {
	items := make([]model.StationItem, 0, len(s.Stations))
	for _, station := range s.Stations {
		items = append(items, model.StationItem{
			Timestamp:           s.Timestamp,
			VendorType:          strings.ToUpper(model.VendorTypeSolis),
			Owner:               s.Owner,
			ID:                  pointy.String(station.ID),
			Name:                pointy.String(station.StationName),
			Address:             pointy.String(station.AddrOrigin),
			Status:              pointy.String(stateName(station.State)),
			InstalledCapacity:   pointy.Float64(station.Capacity),
			CurrentPower:        pointy.Float64(station.Power),
			DailyProduction:     pointy.Float64(station.DayEnergy),
			MonthlyProduction:   pointy.Float64(station.MonthEnergy),
			YearlyProduction:    pointy.Float64(station.YearEnergy),
			TotalProduction:     pointy.Float64(station.AllEnergy),
			InverterCount:       pointy.Int(station.InverterCount),
			InverterOnlineCount: pointy.Int(station.InverterOnlineCount),
			AlarmCount:          pointy.Int(station.AlarmCount),
		})
	}
	return items
}

func (s *Snapshot) InverterItems() []model.InverterItem {
	items := make([]model.InverterItem, 0, len(s.Inverters))
	for _, inverter := range s.Inverters {
		items = append(items, model.InverterItem{
			Timestamp:         s.Timestamp,
			VendorType:        strings.ToUpper(model.VendorTypeSolis),
			Owner:             s.Owner,
			ID:                pointy.String(inverter.ID),
			SN:                pointy.String(inverter.Sn),
			StationID:         pointy.String(inverter.StationID),
			StationName:       pointy.String(inverter.StationName),
			Model:             pointy.String(inverter.ProductModel),
			Status:            pointy.String(stateName(inverter.State)),
			CurrentPower:      pointy.Float64(inverter.Pac),
			DailyProduction:   pointy.Float64(inverter.EToday),
			MonthlyProduction: pointy.Float64(inverter.EMonth),
			YearlyProduction:  pointy.Float64(inverter.EYear),
			TotalProduction:   pointy.Float64(inverter.ETotal),
			BatterySoc:        pointy.Float64(inverter.BatteryCapacitySoc),
		})
	}
	return items
}

// Documents flattens the snapshot into station and inverter items.
func (s *Snapshot) Documents() []any {
	stations := s.StationItems()
	inverters := s.InverterItems()

	documents := make([]any, 0, len(stations)+len(inverters))
	for _, item := range stations {
		documents = append(documents, item)
	}
	for _, item := range inverters {
		documents = append(documents, item)
	}
	return documents
}

func (s *Snapshot) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(s.InverterItems(), w)
}

func (s *Snapshot) WriteStationCSV(w io.Writer) error {
	return gocsv.Marshal(s.StationItems(), w)
}

func stateName(state int) string {
	switch state {
	case soliscloud.InverterStateOnline:
		return model.StatusOnline
	case soliscloud.InverterStateOffline:
		return model.StatusOffline
	case soliscloud.InverterStateAlarm:
		return model.StatusAlarm
	default:
		return fmt.Sprintf("UNKNOWN(%d)", state)
	}
}
