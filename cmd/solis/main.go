package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HavvokLab/solis-cloud/api/soliscloud"
	"github.com/HavvokLab/solis-cloud/collector"
	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/infra"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/pkg/util"
	"github.com/HavvokLab/solis-cloud/repo"
	"github.com/rs/zerolog"
)

const usage = `usage: solis [-config file] [-owner name] <command> [args]

commands:
  stations                         list stations
  station <id>                     station detail
  inverters [-station id]          list inverters
  inverter <id> <sn>               inverter detail
  epms                             list EPMs
  epm <sn>                         EPM detail
  epm-day <sn> <yyyy-mm-dd> [tz]   EPM day telemetry
  epm-month <sn> <yyyy-mm>         EPM month totals
  epm-year <sn> <yyyy>             EPM year totals
  collectors                       list collectors
  schedule get <sn>                read charge/discharge schedule
  schedule set <id> <sn> <value>   write charge/discharge schedule
  export <file.csv>                write inverter snapshot as CSV
  credential list|add|delete       manage stored credentials
`

type app struct {
	cfg      *config.Config
	credRepo repo.SolisCredentialRepo
	owner    string
	logger   zerolog.Logger
}

func main() {
	configPath := flag.String("config", "", "config file (default config.yaml)")
	owner := flag.String("owner", "", "use the stored credential of this owner")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *owner, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, owner string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Log.Level)

	db, err := infra.NewGormDB(cfg.Database.Path)
	if err != nil {
		return err
	}

	a := &app{
		cfg:      cfg,
		credRepo: repo.NewSolisCredentialRepo(db),
		owner:    owner,
		logger:   zerolog.New(logger.NewLumberjack("solis_cli.log")).With().Timestamp().Logger(),
	}

	command, rest := args[0], args[1:]
	switch command {
	case "credential":
		return a.credential(rest)
	case "export":
		return a.export(rest)
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	switch command {
	case "stations":
		status, stations, err := client.ListStations()
		return printResult(map[string]any{"status": status, "stations": stations}, err)
	case "station":
		if err := needArgs(rest, 1); err != nil {
			return err
		}
		station, err := client.GetStationDetail(rest[0])
		return printResult(station, err)
	case "inverters":
		fs := flag.NewFlagSet("inverters", flag.ContinueOnError)
		stationID := fs.String("station", "", "only inverters of this station")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		status, inverters, err := client.ListInverters(soliscloud.WithStationID(*stationID))
		return printResult(map[string]any{"status": status, "inverters": inverters}, err)
	case "inverter":
		if err := needArgs(rest, 2); err != nil {
			return err
		}
		inverter, err := client.GetInverterDetail(rest[0], rest[1])
		return printResult(inverter, err)
	case "epms":
		status, epms, err := client.ListEPMs()
		return printResult(map[string]any{"status": status, "epms": epms}, err)
	case "epm":
		if err := needArgs(rest, 1); err != nil {
			return err
		}
		epm, err := client.GetEPMDetail(rest[0])
		return printResult(epm, err)
	case "epm-day":
		return a.epmDay(client, rest)
	case "epm-month":
		return a.epmPeriod(rest, "2006-01", client.GetEPMMonthData)
	case "epm-year":
		return a.epmPeriod(rest, "2006", client.GetEPMYearData)
	case "collectors":
		collectors, err := client.ListCollectors()
		return printResult(collectors, err)
	case "schedule":
		return a.schedule(client, rest)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// client resolves the credential: a stored one when -owner is given,
// otherwise the key pair from config.
func (a *app) client() (*soliscloud.SolisClient, error) {
	credential, err := a.resolveCredential()
	if err != nil {
		return nil, err
	}

	opts := append(infra.SolisClientOptions(a.cfg.SolisCloud),
		soliscloud.WithBaseURL(credential.BaseURL),
		soliscloud.WithLogger(a.logger),
	)
	return soliscloud.NewSolisClient(credential.KeyID, credential.KeySecret, opts...), nil
}

func (a *app) resolveCredential() (*model.SolisCredential, error) {
	if util.IsEmpty(a.owner) {
		if credential := infra.ConfigCredential(a.cfg.SolisCloud); credential != nil {
			return credential, nil
		}
		return nil, errors.New("no credential: set soliscloud.key_id/key_secret or pass -owner")
	}

	credentials, err := a.credRepo.FindByOwner(a.owner)
	if err != nil {
		return nil, err
	}
	if len(credentials) == 0 {
		return nil, fmt.Errorf("no credential stored for owner %q", a.owner)
	}
	return &credentials[0], nil
}

func (a *app) epmDay(client *soliscloud.SolisClient, args []string) error {
	if err := needArgs(args, 2); err != nil {
		return err
	}

	day, err := time.Parse(time.DateOnly, args[1])
	if err != nil {
		return err
	}

	timeZone := 0
	if len(args) > 2 {
		if _, err := fmt.Sscanf(args[2], "%d", &timeZone); err != nil {
			return fmt.Errorf("invalid time zone %q: %w", args[2], err)
		}
	}

	items, err := client.GetEPMDayData(args[0], day, timeZone)
	return printResult(items, err)
}

func (a *app) epmPeriod(args []string, layout string, fetch func(string, time.Time) ([]soliscloud.EPMMonthYearItem, error)) error {
	if err := needArgs(args, 2); err != nil {
		return err
	}

	period, err := time.Parse(layout, args[1])
	if err != nil {
		return err
	}

	items, err := fetch(args[0], period)
	return printResult(items, err)
}

func (a *app) schedule(client *soliscloud.SolisClient, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}

	switch args[0] {
	case "get":
		if err := needArgs(args, 2); err != nil {
			return err
		}
		schedule, err := client.GetChargeDischargeSchedule(args[1])
		if err != nil {
			return err
		}
		if schedule == nil {
			fmt.Println("no schedule configured")
			return nil
		}
		fmt.Println(schedule.Encode())
		return nil
	case "set":
		if err := needArgs(args, 4); err != nil {
			return err
		}
		schedule, err := soliscloud.DecodeSchedule(args[3])
		if err != nil {
			return err
		}
		result, err := client.SetChargeDischargeSchedule(args[1], args[2], schedule)
		return printResult(result, err)
	default:
		return fmt.Errorf("unknown schedule command %q", args[0])
	}
}

func (a *app) export(args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}

	credential, err := a.resolveCredential()
	if err != nil {
		return err
	}

	opts := append(infra.SolisClientOptions(a.cfg.SolisCloud), soliscloud.WithLogger(a.logger))
	snapshot, err := collector.NewSolisCollector(opts...).WithLogger(a.logger).Collect(credential)
	if err != nil {
		return err
	}

	file, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	if err := snapshot.WriteCSV(file); err != nil {
		return err
	}

	fmt.Printf("wrote %d inverters to %s\n", len(snapshot.Inverters), args[0])
	return nil
}

func (a *app) credential(args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		credentials, err := a.credRepo.FindAll()
		if err != nil {
			return err
		}
		for i := range credentials {
			credentials[i].KeySecret = util.MaskSecret(credentials[i].KeySecret)
		}
		util.PrintJSON(credentials)
		return nil
	case "add":
		fs := flag.NewFlagSet("credential add", flag.ContinueOnError)
		keyID := fs.String("key-id", "", "API key id")
		keySecret := fs.String("key-secret", "", "API key secret")
		baseURL := fs.String("base-url", "", "API base URL")
		owner := fs.String("owner", "", "credential owner")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if util.IsEmpty(*keyID) || util.IsEmpty(*keySecret) || util.IsEmpty(*owner) {
			return errors.New("-key-id, -key-secret and -owner are required")
		}
		credential := &model.SolisCredential{KeyID: *keyID, KeySecret: *keySecret, BaseURL: *baseURL, Owner: *owner}
		if err := a.credRepo.Create(credential); err != nil {
			return err
		}
		fmt.Printf("stored credential %d for %s\n", credential.ID, credential.Owner)
		return nil
	case "delete":
		if err := needArgs(args, 2); err != nil {
			return err
		}
		var id int64
		if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
			return fmt.Errorf("invalid credential id %q", args[1])
		}
		return a.credRepo.Delete(id)
	default:
		return fmt.Errorf("unknown credential command %q", args[0])
	}
}

func printResult(v any, err error) error {
	if err != nil {
		return err
	}
	return util.FprintJSON(os.Stdout, v)
}

func needArgs(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}
