package alarm

import (
	"fmt"
	"strings"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/infra"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/pkg/util"
	"github.com/HavvokLab/solis-cloud/setting"
	"github.com/rs/zerolog"
)

// Trapper delivers one alarm. *infra.SnmpOrchestrator satisfies it.
type Trapper interface {
	SendTrap(deviceName, alertName, description, severity, lastedUpdateTime string)
}

type SolisAlarm struct {
	vendorType string
	trapper    Trapper
	clientOpts []soliscloud.Option
	logger     zerolog.Logger
}

func NewSolisAlarm(trapper Trapper, clientOpts ...soliscloud.Option) *SolisAlarm {
	return &SolisAlarm{
		vendorType: strings.ToUpper(model.VendorTypeSolis),
		trapper:    trapper,
		clientOpts: clientOpts,
		logger:     zerolog.New(logger.NewWriter("solis_alarm.log")).With().Timestamp().Caller().Logger(),
	}
}

// Run raises a trap for every inverter that is offline or in alarm and
// returns the alarm documents that were sent.
func (s *SolisAlarm) Run(credential *model.SolisCredential) (documents []model.SnmpAlarmItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Str("key_id", credential.KeyID).Any("error", r).Msg("SolisAlarm::Run() - failed to run")
			err = fmt.Errorf("solis alarm panic: %v", r)
		}
	}()

	opts := append(append([]soliscloud.Option{}, s.clientOpts...), soliscloud.WithBaseURL(credential.BaseURL))
	client := soliscloud.NewSolisClient(credential.KeyID, credential.KeySecret, opts...)

	_, inverters, err := client.ListInverters()
	if err != nil {
		s.logger.Error().Err(err).Str("key_id", credential.KeyID).Msg("SolisAlarm::Run() - failed to list inverters")
		return nil, err
	}

	documents = make([]model.SnmpAlarmItem, 0)
	for _, inverter := range inverters {
		var alarmName, severity string
		switch inverter.State {
		case soliscloud.InverterStateOffline:
			alarmName, severity = setting.SolisAlarmDisconnect, infra.MajorSeverity
		case soliscloud.InverterStateAlarm:
			alarmName, severity = setting.SolisAlarmFault, infra.CriticalSeverity
		default:
			continue
		}

		deviceName := inverter.StationName
		if util.IsEmpty(deviceName) {
			deviceName = inverter.Sn
		}
		payload := fmt.Sprintf("Solis,%s,%s,%s", inverter.StationID, inverter.ID, inverter.Sn)
		lastedTime := inverter.TimeStr
		if util.IsEmpty(lastedTime) {
			lastedTime = inverter.DataTimestamp
		}

		s.trapper.SendTrap(deviceName, alarmName, payload, severity, lastedTime)
		documents = append(documents, model.NewSnmpAlarmItem(s.vendorType, credential.Owner, deviceName, alarmName, payload, severity, lastedTime))
	}

	s.logger.Info().
		Str("key_id", credential.KeyID).
		Int("inverter_count", len(inverters)).
		Int("alarm_count", len(documents)).
		Msg("SolisAlarm::Run() - success")

	return documents, nil
}
