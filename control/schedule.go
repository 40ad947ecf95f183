package control

import (
	"fmt"
	"strings"
	"sync"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
)

const DefaultWorkers = 4

// Result is the outcome of enforcing one inverter's schedule.
type Result struct {
	Owner      string                `json:"owner"`
	InverterSN string                `json:"inverter_sn"`
	Changed    bool                  `json:"changed"`
	SetResult  *soliscloud.SetResult `json:"set_result,omitempty"`
	Err        error                 `json:"-"`
	Error      string                `json:"error,omitempty"`
}

// ScheduleEnforcer keeps configured inverters on their desired
// charge/discharge schedule, writing only when the live one differs.
type ScheduleEnforcer struct {
	desired    map[string]soliscloud.ChargeDischargeSchedule
	clientOpts []soliscloud.Option
	logger     zerolog.Logger
}

func NewScheduleEnforcer(schedules []config.ScheduleConfig, clientOpts ...soliscloud.Option) (*ScheduleEnforcer, error) {
	desired := make(map[string]soliscloud.ChargeDischargeSchedule, len(schedules))
	for _, s := range schedules {
		schedule, err := soliscloud.DecodeSchedule(s.Value)
		if err != nil {
			return nil, fmt.Errorf("schedule for inverter %s: %w", s.InverterSN, err)
		}
		desired[strings.TrimSpace(s.InverterSN)] = *schedule
	}

	return &ScheduleEnforcer{
		desired:    desired,
		clientOpts: clientOpts,
		logger:     zerolog.New(logger.NewWriter("solis_schedule.log")).With().Timestamp().Caller().Logger(),
	}, nil
}

func (e *ScheduleEnforcer) Enforce(credential *model.SolisCredential) ([]Result, error) {
	opts := append(append([]soliscloud.Option{}, e.clientOpts...), soliscloud.WithBaseURL(credential.BaseURL))
	client := soliscloud.NewSolisClient(credential.KeyID, credential.KeySecret, opts...)

	_, inverters, err := client.ListInverters()
	if err != nil {
		e.logger.Error().Err(err).Str("key_id", credential.KeyID).Msg("ScheduleEnforcer::Enforce() - failed to list inverters")
		return nil, err
	}

	results := make([]Result, 0)
	for _, inverter := range inverters {
		want, ok := e.desired[inverter.Sn]
		if !ok {
			continue
		}

		result := e.enforceOne(client, inverter, want)
		result.Owner = credential.Owner
		results = append(results, result)
	}

	return results, nil
}

func (e *ScheduleEnforcer) enforceOne(client *soliscloud.SolisClient, inverter soliscloud.Inverter, want soliscloud.ChargeDischargeSchedule) Result {
	result := Result{InverterSN: inverter.Sn}
	log := e.logger.With().Str("inverter_sn", inverter.Sn).Str("inverter_id", inverter.ID).Logger()

	current, err := inverter.GetSchedule(client)
	if err != nil {
		log.Error().Err(err).Msg("ScheduleEnforcer::Enforce() - failed to read schedule")
		return result.failed(err)
	}

	if current != nil && *current == want {
		log.Debug().Str("schedule", want.Encode()).Msg("ScheduleEnforcer::Enforce() - schedule up to date")
		return result
	}

	setResult, err := inverter.SetSchedule(client, &want)
	if err != nil {
		log.Error().Err(err).Msg("ScheduleEnforcer::Enforce() - failed to write schedule")
		return result.failed(err)
	}

	result.SetResult = setResult
	if !setResult.Success {
		log.Error().Str("error", setResult.Error).Msg("ScheduleEnforcer::Enforce() - schedule rejected")
		return result.failed(fmt.Errorf("schedule rejected: %s", setResult.Error))
	}

	result.Changed = true
	log.Info().Str("schedule", want.Encode()).Str("message", setResult.Message).Msg("ScheduleEnforcer::Enforce() - schedule written")
	return result
}

func (r Result) failed(err error) Result {
	r.Err = err
	r.Error = err.Error()
	return r
}

// RunAll enforces every credential on a pool of workers. A credential whose
// inverter listing fails contributes a single failed result.
func (e *ScheduleEnforcer) RunAll(credentials []model.SolisCredential, workers int) []Result {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var mu sync.Mutex
	results := make([]Result, 0)
	wp := workerpool.New(workers)
	for _, credential := range credentials {
		cred := credential
		wp.Submit(func() {
			credResults, err := e.Enforce(&cred)
			if err != nil {
				credResults = []Result{Result{Owner: cred.Owner}.failed(err)}
			}

			mu.Lock()
			results = append(results, credResults...)
			mu.Unlock()
		})
	}
	wp.StopWait()

	return results
}
