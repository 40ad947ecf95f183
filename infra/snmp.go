package infra

import (
	"fmt"
	"time"

	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/gosnmp/gosnmp"
	"github.com/rs/zerolog"
)

type TrapType string

func (t TrapType) String() string {
	return string(t)
}

const (
	TrapTypeSolisAlarm    TrapType = "solis_alarm"
	TrapTypeSolisSchedule TrapType = "solis_schedule"
)

const (
	CriticalSeverity      = "6"
	MajorSeverity         = "5"
	MinorSeverity         = "4"
	WarningSeverity       = "3"
	IndeterminateSeverity = "2"
	ClearSeverity         = "0"
)

const (
	trapEnterpriseOID = "1.3.6.1.4.1.30378.1.1"
	trapVariableOID   = "1.3.6.1.4.1.30378.2"
	trapComponent     = "HPOVComponent"
)

// SnmpOrchestrator fans a trap out to every configured manager.
type SnmpOrchestrator struct {
	clients  []*SnmpClient
	trapType TrapType
	logger   zerolog.Logger
}

func NewSnmpOrchestrator(trapType TrapType, snmpList []config.SnmpConfig) (*SnmpOrchestrator, error) {
	clients := make([]*SnmpClient, 0, len(snmpList))
	for _, c := range snmpList {
		client, err := NewSnmpClient(c)
		if err != nil {
			return nil, fmt.Errorf("failed to connect snmp target %s:%d: %w", c.TargetHost, c.TargetPort, err)
		}

		clients = append(clients, client)
	}

	return &SnmpOrchestrator{
		clients:  clients,
		trapType: trapType,
		logger:   zerolog.New(logger.NewWriter("snmp.log")).With().Timestamp().Caller().Logger(),
	}, nil
}

func (s *SnmpOrchestrator) SendTrap(deviceName, alertName, description, severity, lastedUpdateTime string) {
	for _, client := range s.clients {
		err := client.SendTrap(deviceName, alertName, description, severity, lastedUpdateTime)

		event := s.logger.Info()
		msg := "send trap success"
		if err != nil {
			event = s.logger.Error().Err(err)
			msg = "failed to send trap"
		}

		event.
			Str("agent_host", client.agentHost).
			Str("target_host", client.client.Target).
			Int("target_port", int(client.client.Port)).
			Str("trap_type", s.trapType.String()).
			Str("device_name", deviceName).
			Str("alert_name", alertName).
			Str("description", description).
			Str("severity", severity).
			Str("lasted_update_time", lastedUpdateTime).
			Msg(msg)
	}
}

func (s *SnmpOrchestrator) Close() {
	for _, client := range s.clients {
		if client.client.Conn != nil {
			_ = client.client.Conn.Close()
		}
	}
}

type SnmpClient struct {
	agentHost string
	client    *gosnmp.GoSNMP
}

func NewSnmpClient(cfg config.SnmpConfig) (*SnmpClient, error) {
	client := &gosnmp.GoSNMP{
		Target:             cfg.TargetHost,
		Port:               uint16(cfg.TargetPort),
		Transport:          "udp",
		Community:          "public",
		Version:            gosnmp.Version1,
		Timeout:            30 * time.Second,
		Retries:            3,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}

	return &SnmpClient{agentHost: cfg.AgentHost, client: client}, nil
}

func (c *SnmpClient) SendTrap(deviceName, alertName, description, severity, lastedUpdateTime string) error {
	values := []string{trapComponent, deviceName, alertName, description, severity, lastedUpdateTime}
	variables := make([]gosnmp.SnmpPDU, 0, len(values))
	for i, value := range values {
		variables = append(variables, gosnmp.SnmpPDU{
			Name:  fmt.Sprintf("%s.%d", trapVariableOID, i+1),
			Type:  gosnmp.OctetString,
			Value: value,
		})
	}

	trap := gosnmp.SnmpTrap{
		Enterprise:   trapEnterpriseOID,
		AgentAddress: c.agentHost,
		GenericTrap:  6,
		SpecificTrap: 1,
		Variables:    variables,
	}

	if _, err := c.client.SendTrap(trap); err != nil {
		return err
	}

	return nil
}
