package model

import "time"

const VendorTypeSolis = "solis"

const (
	StatusOnline  = "ONLINE"
	StatusOffline = "OFFLINE"
	StatusAlarm   = "ALARM"
)

type StationItem struct {
	Timestamp           time.Time `json:"timestamp" csv:"timestamp"`
	VendorType          string    `json:"vendor_type" csv:"vendor_type"`
	Owner               string    `json:"owner" csv:"owner"`
	ID                  *string   `json:"id,omitempty" csv:"id"`
	Name                *string   `json:"name,omitempty" csv:"name"`
	Address             *string   `json:"address,omitempty" csv:"address"`
	Status              *string   `json:"status,omitempty" csv:"status"`
	InstalledCapacity   *float64  `json:"installed_capacity,omitempty" csv:"installed_capacity"`
	CurrentPower        *float64  `json:"current_power,omitempty" csv:"current_power"`
	DailyProduction     *float64  `json:"daily_production,omitempty" csv:"daily_production"`
	MonthlyProduction   *float64  `json:"monthly_production,omitempty" csv:"monthly_production"`
	YearlyProduction    *float64  `json:"yearly_production,omitempty" csv:"yearly_production"`
	TotalProduction     *float64  `json:"total_production,omitempty" csv:"total_production"`
	InverterCount       *int      `json:"inverter_count,omitempty" csv:"inverter_count"`
	InverterOnlineCount *int      `json:"inverter_online_count,omitempty" csv:"inverter_online_count"`
	AlarmCount          *int      `json:"alarm_count,omitempty" csv:"alarm_count"`
}

type InverterItem struct {
	Timestamp         time.Time `json:"timestamp" csv:"timestamp"`
	VendorType        string    `json:"vendor_type" csv:"vendor_type"`
	Owner             string    `json:"owner" csv:"owner"`
	ID                *string   `json:"id,omitempty" csv:"id"`
	SN                *string   `json:"sn,omitempty" csv:"sn"`
	StationID         *string   `json:"station_id,omitempty" csv:"station_id"`
	StationName       *string   `json:"station_name,omitempty" csv:"station_name"`
	Model             *string   `json:"model,omitempty" csv:"model"`
	Status            *string   `json:"status,omitempty" csv:"status"`
	CurrentPower      *float64  `json:"current_power,omitempty" csv:"current_power"`
	DailyProduction   *float64  `json:"daily_production,omitempty" csv:"daily_production"`
	MonthlyProduction *float64  `json:"monthly_production,omitempty" csv:"monthly_production"`
	YearlyProduction  *float64  `json:"yearly_production,omitempty" csv:"yearly_production"`
	TotalProduction   *float64  `json:"total_production,omitempty" csv:"total_production"`
	BatterySoc        *float64  `json:"battery_soc,omitempty" csv:"battery_soc"`
	Schedule          *string   `json:"schedule,omitempty" csv:"schedule"`
}

type SnmpAlarmItem struct {
	Timestamp   time.Time `json:"timestamp"`
	VendorType  string    `json:"vendor_type"`
	Owner       string    `json:"owner"`
	DeviceName  string    `json:"device_name"`
	AlarmName   string    `json:"alarm_name"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	LastedTime  string    `json:"lasted_time"`
}

func NewSnmpAlarmItem(vendorType, owner, deviceName, alarmName, description, severity, lastedTime string) SnmpAlarmItem {
	return SnmpAlarmItem{
		Timestamp:   time.Now().UTC(),
		VendorType:  vendorType,
		Owner:       owner,
		DeviceName:  deviceName,
		AlarmName:   alarmName,
		Description: description,
		Severity:    severity,
		LastedTime:  lastedTime,
	}
}
