package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HavvokLab/solis-cloud/alarm"
	"github.com/HavvokLab/solis-cloud/collector"
	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/control"
	"github.com/HavvokLab/solis-cloud/infra"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/repo"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

const exportDir = "exports"

var (
	collectJobLogger  = newJobLogger("solis_collect.log")
	alarmJobLogger    = newJobLogger("solis_alarm_job.log")
	scheduleJobLogger = newJobLogger("solis_schedule_job.log")
)

func main() {
	logger.Init("runner.log")
	cfg := config.GetConfig()
	logger.SetLevel(cfg.Log.Level)

	db, err := infra.NewGormDB(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential database")
	}

	cron := gocron.NewScheduler(time.Local)
	if err := registerJobs(cron, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to register runner jobs")
	}

	log.Info().Msg("starting runner scheduler")
	cron.StartBlocking()
}

func registerJobs(cron *gocron.Scheduler, cfg *config.Config, db *gorm.DB) error {
	credRepo := repo.NewSolisCredentialRepo(db)

	if err := addCronJob(cron, cfg.Crontab.CollectTime, "solis_collect", collectJobLogger, func() error {
		return runCollect(collectJobLogger, cfg, credRepo)
	}); err != nil {
		return err
	}

	if len(cfg.SnmpList) > 0 {
		if err := addCronJob(cron, cfg.Crontab.AlarmTime, "solis_alarm", alarmJobLogger, func() error {
			return runAlarm(alarmJobLogger, cfg, credRepo)
		}); err != nil {
			return err
		}
	}

	if len(cfg.Schedules) > 0 {
		if err := addCronJob(cron, cfg.Crontab.ScheduleTime, "solis_schedule", scheduleJobLogger, func() error {
			return runSchedule(scheduleJobLogger, cfg, credRepo)
		}); err != nil {
			return err
		}
	}

	return nil
}

func addCronJob(cron *gocron.Scheduler, cronExpr, name string, jobLogger zerolog.Logger, fn func() error) error {
	if _, err := cron.Cron(cronExpr).StartImmediately().SingletonMode().Do(func() {
		safeRun(jobLogger, name, fn)
	}); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	return nil
}

func safeRun(jobLogger zerolog.Logger, name string, fn func() error) {
	log := jobLogger.With().Str("job", name).Logger()
	log.Info().Msg("job started")
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("recover", r).Msg("job panicked")
		}
	}()

	if err := fn(); err != nil {
		log.Error().Err(err).Msg("job finished with error")
		return
	}

	log.Info().Msg("job finished successfully")
}

func findCredentials(jobLogger zerolog.Logger, cfg *config.Config, credRepo repo.SolisCredentialRepo) ([]model.SolisCredential, error) {
	credentials, err := credRepo.FindAll()
	if err != nil {
		jobLogger.Error().Err(err).Msg("failed to find solis credentials")
		return nil, err
	}

	if credential := infra.ConfigCredential(cfg.SolisCloud); credential != nil {
		credentials = append(credentials, *credential)
	}

	if len(credentials) == 0 {
		jobLogger.Info().Msg("no solis credentials found")
	}

	return credentials, nil
}

func runCollect(jobLogger zerolog.Logger, cfg *config.Config, credRepo repo.SolisCredentialRepo) error {
	defer guardJob(jobLogger, "solis_collect")

	credentials, err := findCredentials(jobLogger, cfg, credRepo)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", exportDir, err)
	}

	wg := conc.NewWaitGroup()
	now := time.Now()
	for _, credential := range credentials {
		cred := credential
		wg.Go(func() {
			serv := collector.NewSolisCollector(infra.SolisClientOptions(cfg.SolisCloud)...)
			snapshot, err := serv.Collect(&cred)
			if err != nil {
				jobLogger.Error().Err(err).Str("owner", cred.Owner).Msg("failed to collect snapshot")
				return
			}

			if err := writeExport(snapshot, now); err != nil {
				jobLogger.Error().Err(err).Str("owner", cred.Owner).Msg("failed to export snapshot")
				return
			}

			jobLogger.Info().
				Str("owner", cred.Owner).
				Int("document_count", len(snapshot.Documents())).
				Msg("collect snapshot success")
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		err := fmt.Errorf("solis collect panic: %v", recovered.Value)
		jobLogger.Error().Err(err).Msg("collector recovered from panic")
		return err
	}

	return nil
}

func writeExport(snapshot *collector.Snapshot, now time.Time) error {
	name := fmt.Sprintf("%s-%s-%s.csv", snapshot.Owner, snapshot.KeyID, now.Format("2006.01.02-1504"))
	file, err := os.Create(filepath.Join(exportDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	return snapshot.WriteCSV(file)
}

func runAlarm(jobLogger zerolog.Logger, cfg *config.Config, credRepo repo.SolisCredentialRepo) error {
	defer guardJob(jobLogger, "solis_alarm")

	credentials, err := findCredentials(jobLogger, cfg, credRepo)
	if err != nil {
		return err
	}

	snmp, err := infra.NewSnmpOrchestrator(infra.TrapTypeSolisAlarm, cfg.SnmpList)
	if err != nil {
		jobLogger.Error().Err(err).Msg("failed to create snmp orchestrator")
		return err
	}
	defer snmp.Close()

	wg := conc.NewWaitGroup()
	for _, credential := range credentials {
		cred := credential
		wg.Go(func() {
			serv := alarm.NewSolisAlarm(snmp, infra.SolisClientOptions(cfg.SolisCloud)...)
			if _, err := serv.Run(&cred); err != nil {
				jobLogger.Error().Err(err).Str("owner", cred.Owner).Msg("failed to run alarm")
			}
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		err := fmt.Errorf("solis alarm panic: %v", recovered.Value)
		jobLogger.Error().Err(err).Msg("alarm recovered from panic")
		return err
	}

	return nil
}

func runSchedule(jobLogger zerolog.Logger, cfg *config.Config, credRepo repo.SolisCredentialRepo) error {
	defer guardJob(jobLogger, "solis_schedule")

	credentials, err := findCredentials(jobLogger, cfg, credRepo)
	if err != nil {
		return err
	}

	enforcer, err := control.NewScheduleEnforcer(cfg.Schedules, infra.SolisClientOptions(cfg.SolisCloud)...)
	if err != nil {
		jobLogger.Error().Err(err).Msg("failed to create schedule enforcer")
		return err
	}

	failed := 0
	for _, result := range enforcer.RunAll(credentials, control.DefaultWorkers) {
		if result.Err != nil {
			failed++
		}
		jobLogger.Info().Any("result", result).Msg("schedule result")
	}

	if failed > 0 {
		return fmt.Errorf("%d schedule writes failed", failed)
	}

	return nil
}

func newJobLogger(file string) zerolog.Logger {
	return zerolog.New(logger.NewWriter(file)).With().Timestamp().Caller().Logger()
}

func guardJob(jobLogger zerolog.Logger, name string) {
	if r := recover(); r != nil {
		jobLogger.Error().
			Str("job", name).
			Any("recover", r).
			Msg("job panicked, recovered to keep scheduler alive")
	}
}
