package soliscloud

import "time"

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    any    `json:"code,omitempty"`
	Msg     string `json:"msg,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type Page struct {
	Current int              `json:"current"`
	Pages   int              `json:"pages"`
	Size    int              `json:"size"`
	Total   int              `json:"total"`
	Records []map[string]any `json:"records"`
}

// StatusVo is the fleet health summary returned alongside a listing.
type StatusVo struct {
	All      int `json:"all"`
	Normal   int `json:"normal"`
	Fault    int `json:"fault"`
	Offline  int `json:"offline"`
	Building int `json:"building"`
	Mppt     int `json:"mppt"`
}

type SetResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	InverterStateOnline  = 1
	InverterStateOffline = 2
	InverterStateAlarm   = 3
)

type Station struct {
	ID                          string  `json:"id"`
	UserID                      string  `json:"userId"`
	Sno                         string  `json:"sno"`
	StationName                 string  `json:"stationName"`
	State                       int     `json:"state"`
	Type                        int     `json:"type"`
	StationTypeNew              int     `json:"stationTypeNew"`
	AddrOrigin                  string  `json:"addrOrigin"`
	Country                     string  `json:"country"`
	CountryStr                  string  `json:"countryStr"`
	Region                      string  `json:"region"`
	RegionStr                   string  `json:"regionStr"`
	City                        string  `json:"city"`
	CityStr                     string  `json:"cityStr"`
	Installer                   string  `json:"installer"`
	TimeZone                    float64 `json:"timeZone"`
	TimeZoneStr                 string  `json:"timeZoneStr"`
	TimeZoneName                string  `json:"timeZoneName"`
	Daylight                    int     `json:"daylight"`
	Capacity                    float64 `json:"capacity"`
	CapacityStr                 string  `json:"capacityStr"`
	CapacityPercent             float64 `json:"capacityPercent"`
	Power                       float64 `json:"power"`
	PowerStr                    string  `json:"powerStr"`
	DayEnergy                   float64 `json:"dayEnergy"`
	DayEnergyStr                string  `json:"dayEnergyStr"`
	MonthEnergy                 float64 `json:"monthEnergy"`
	MonthEnergyStr              string  `json:"monthEnergyStr"`
	YearEnergy                  float64 `json:"yearEnergy"`
	YearEnergyStr               string  `json:"yearEnergyStr"`
	AllEnergy                   float64 `json:"allEnergy"`
	AllEnergyStr                string  `json:"allEnergyStr"`
	DayIncome                   float64 `json:"dayIncome"`
	AllIncome                   float64 `json:"allIncome"`
	Money                       string  `json:"money"`
	Price                       float64 `json:"price"`
	FullHour                    float64 `json:"fullHour"`
	Azimuth                     float64 `json:"azimuth"`
	Dip                         float64 `json:"dip"`
	Module                      string  `json:"module"`
	InverterCount               int     `json:"inverterCount"`
	InverterOnlineCount         int     `json:"inverterOnlineCount"`
	EpmCount                    int     `json:"epmCount"`
	EpmType                     int     `json:"epmType"`
	ChargerCount                int     `json:"chargerCount"`
	AlarmCount                  int     `json:"alarmCount"`
	AlarmLongStr                string  `json:"alarmLongStr"`
	GridSwitch                  int     `json:"gridSwitch"`
	SynchronizationType         int     `json:"synchronizationType"`
	BatteryTodayChargeEnergy    float64 `json:"batteryTodayChargeEnergy"`
	BatteryTodayDischargeEnergy float64 `json:"batteryTodayDischargeEnergy"`
	BatteryTotalChargeEnergy    float64 `json:"batteryTotalChargeEnergy"`
	BatteryTotalDischargeEnergy float64 `json:"batteryTotalDischargeEnergy"`
	GridPurchasedTodayEnergy    float64 `json:"gridPurchasedTodayEnergy"`
	GridPurchasedTotalEnergy    float64 `json:"gridPurchasedTotalEnergy"`
	GridSellTodayEnergy         float64 `json:"gridSellTodayEnergy"`
	GridSellTotalEnergy         float64 `json:"gridSellTotalEnergy"`
	HomeLoadTodayEnergy         float64 `json:"homeLoadTodayEnergy"`
	HomeLoadTotalEnergy         float64 `json:"homeLoadTotalEnergy"`
	OneSelf                     float64 `json:"oneSelf"`
	AccessTime                  int64   `json:"accessTime"`
	CreateDate                  int64   `json:"createDate"`
	UpdateDate                  int64   `json:"updateDate"`
	DataTimestamp               string  `json:"dataTimestamp"`
	DataTimestampStr            string  `json:"dataTimestampStr"`
}

func (s Station) ListInverters(c *SolisClient, opts ...QueryOption) (*StatusVo, []Inverter, error) {
	return c.ListInverters(append([]QueryOption{WithStationID(s.ID)}, opts...)...)
}

type Inverter struct {
	ID                          string  `json:"id"`
	UserID                      string  `json:"userId"`
	Sn                          string  `json:"sn"`
	StationID                   string  `json:"stationId"`
	StationName                 string  `json:"stationName"`
	StationType                 int     `json:"stationType"`
	CollectorSn                 string  `json:"collectorsn"`
	CollectorID                 string  `json:"collectorId"`
	CollectorState              int     `json:"collectorState"`
	Model                       string  `json:"model"`
	ProductModel                string  `json:"productModel"`
	InverterType                int     `json:"inverterType"`
	Version                     string  `json:"version"`
	Version2                    string  `json:"version2"`
	NationalStandards           string  `json:"nationalStandards"`
	State                       int     `json:"state"`
	StateExceptionFlag          int     `json:"stateExceptionFlag"`
	CurrentState                string  `json:"currentState"`
	AlarmState                  int     `json:"alarmState"`
	WarningInfoData             int     `json:"warningInfoData"`
	MpptSwitch                  int     `json:"mpptSwitch"`
	TimeZone                    float64 `json:"timeZone"`
	TimeZoneStr                 string  `json:"timeZoneStr"`
	DataTimestamp               string  `json:"dataTimestamp"`
	TimeStr                     string  `json:"timeStr"`
	InverterTemperature         float64 `json:"inverterTemperature"`
	InverterTemperatureUnit     string  `json:"inverterTemperatureUnit"`
	Pac                         float64 `json:"pac"`
	PacStr                      string  `json:"pacStr"`
	Power                       float64 `json:"power"`
	PowerStr                    string  `json:"powerStr"`
	DcPac                       float64 `json:"dcPac"`
	ReactivePower               float64 `json:"reactivePower"`
	ApparentPower               float64 `json:"apparentPower"`
	FullHour                    float64 `json:"fullHour"`
	EToday                      float64 `json:"eToday"`
	ETodayStr                   string  `json:"eTodayStr"`
	EMonth                      float64 `json:"eMonth"`
	EMonthStr                   string  `json:"eMonthStr"`
	EYear                       float64 `json:"eYear"`
	EYearStr                    string  `json:"eYearStr"`
	ETotal                      float64 `json:"eTotal"`
	ETotalStr                   string  `json:"eTotalStr"`
	UPv1                        float64 `json:"uPv1"`
	IPv1                        float64 `json:"iPv1"`
	UPv2                        float64 `json:"uPv2"`
	IPv2                        float64 `json:"iPv2"`
	BatteryPower                float64 `json:"batteryPower"`
	BatteryPowerStr             string  `json:"batteryPowerStr"`
	BatteryCapacitySoc          float64 `json:"batteryCapacitySoc"`
	BatteryHealthSoh            float64 `json:"batteryHealthSoh"`
	BatteryVoltage              float64 `json:"batteryVoltage"`
	StorageBatteryCurrent       float64 `json:"storageBatteryCurrent"`
	BatteryTodayChargeEnergy    float64 `json:"batteryTodayChargeEnergy"`
	BatteryTodayDischargeEnergy float64 `json:"batteryTodayDischargeEnergy"`
	BatteryTotalChargeEnergy    float64 `json:"batteryTotalChargeEnergy"`
	BatteryTotalDischargeEnergy float64 `json:"batteryTotalDischargeEnergy"`
	GridPurchasedTodayEnergy    float64 `json:"gridPurchasedTodayEnergy"`
	GridPurchasedTotalEnergy    float64 `json:"gridPurchasedTotalEnergy"`
	GridSellTodayEnergy         float64 `json:"gridSellTodayEnergy"`
	GridSellTotalEnergy         float64 `json:"gridSellTotalEnergy"`
	HomeLoadTodayEnergy         float64 `json:"homeLoadTodayEnergy"`
	HomeLoadTotalEnergy         float64 `json:"homeLoadTotalEnergy"`
	FamilyLoadPower             float64 `json:"familyLoadPower"`
	TotalLoadPower              float64 `json:"totalLoadPower"`
}

func (i Inverter) GetSchedule(c *SolisClient) (*ChargeDischargeSchedule, error) {
	return c.GetChargeDischargeSchedule(i.Sn)
}

func (i Inverter) SetSchedule(c *SolisClient, schedule *ChargeDischargeSchedule) (*SetResult, error) {
	return c.SetChargeDischargeSchedule(i.ID, i.Sn, schedule)
}

type EPM struct {
	ID                  string  `json:"id"`
	Sn                  string  `json:"sn"`
	Sno                 string  `json:"sno"`
	UserID              string  `json:"userId"`
	StationID           string  `json:"stationId"`
	StationName         string  `json:"stationName"`
	StationType         int     `json:"stationType"`
	CollectorID         string  `json:"collectorId"`
	CollectorSn         string  `json:"collectorSn"`
	EpmModel            string  `json:"epmModel"`
	EpmType             string  `json:"epmType"`
	InverterModel       string  `json:"inverterModel"`
	InverterNum         int     `json:"inverterNum"`
	EmpSoftwareVersion  string  `json:"empSoftwareVersion"`
	State               int     `json:"state"`
	StateExceptionFlag  int     `json:"stateExceptionFlag"`
	CurrentState        string  `json:"currentState"`
	IsRealtime          int     `json:"isRealtime"`
	TimeZone            float64 `json:"timeZone"`
	TimeZoneStr         string  `json:"timeZoneStr"`
	Daylight            int     `json:"daylight"`
	DataTimestamp       string  `json:"dataTimestamp"`
	EpmDataTime         string  `json:"epmDataTime"`
	CtRatio             float64 `json:"ctRatio"`
	FailSafe            int     `json:"failSafe"`
	PLimit              float64 `json:"pLimit"`
	PSet                float64 `json:"pSet"`
	PowerFactor         float64 `json:"powerFactor"`
	FacMeter            float64 `json:"facMeter"`
	UAc1                float64 `json:"uAc1"`
	UAc2                float64 `json:"uAc2"`
	UAc3                float64 `json:"uAc3"`
	IAc1                float64 `json:"iAc1"`
	IAc2                float64 `json:"iAc2"`
	IAc3                float64 `json:"iAc3"`
	PAc1                float64 `json:"pAc1"`
	PAc2                float64 `json:"pAc2"`
	PAc3                float64 `json:"pAc3"`
	PLoad               float64 `json:"pLoad"`
	PEpmTotal           float64 `json:"pEpmTotal"`
	PInverterTotal      float64 `json:"pInverterTotal"`
	ETodayBuy           float64 `json:"eTodayBuy"`
	ETodaySell          float64 `json:"eTodaySell"`
	ETotalBuy           float64 `json:"eTotalBuy"`
	ETotalSell          float64 `json:"eTotalSell"`
	ETotalLoad          float64 `json:"eTotalLoad"`
	MonthBuy            float64 `json:"monthBuy"`
	MonthSell           float64 `json:"monthSell"`
	EpmTodayLoadEnergy  float64 `json:"epmTodayLoadEnergy"`
	EpmMonthLoadEnergy  float64 `json:"epmMonthLoadEnergy"`
	EpmTotalLoadEnergy  float64 `json:"epmTotalLoadEnergy"`
	SynchronizationType int     `json:"synchronizationType"`
}

func (e EPM) GetDayData(c *SolisClient, day time.Time, timeZone int, fields ...EPMField) ([]EPMDayItem, error) {
	return c.GetEPMDayData(e.Sn, day, timeZone, fields...)
}

func (e EPM) GetMonthData(c *SolisClient, month time.Time) ([]EPMMonthYearItem, error) {
	return c.GetEPMMonthData(e.Sn, month)
}

func (e EPM) GetYearData(c *SolisClient, year time.Time) ([]EPMMonthYearItem, error) {
	return c.GetEPMYearData(e.Sn, year)
}

type Collector struct {
	ID            string  `json:"id"`
	Sn            string  `json:"sn"`
	UserID        string  `json:"userId"`
	StationID     string  `json:"stationId"`
	StationName   string  `json:"stationName"`
	Model         string  `json:"model"`
	Version       string  `json:"version"`
	State         int     `json:"state"`
	Rssi          int     `json:"rssi"`
	RssiLevel     int     `json:"rssiLevel"`
	SimFlowState  int     `json:"simFlowState"`
	TimeZone      float64 `json:"timeZone"`
	DataTimestamp string  `json:"dataTimestamp"`
}

// EPMField selects a column of /v1/api/epm/day.
type EPMField string

const (
	EPMFieldUAc1           EPMField = "u_ac1"
	EPMFieldUAc2           EPMField = "u_ac2"
	EPMFieldUAc3           EPMField = "u_ac3"
	EPMFieldIAc1           EPMField = "i_ac1"
	EPMFieldIAc2           EPMField = "i_ac2"
	EPMFieldIAc3           EPMField = "i_ac3"
	EPMFieldPAc1           EPMField = "p_ac1"
	EPMFieldPAc2           EPMField = "p_ac2"
	EPMFieldPAc3           EPMField = "p_ac3"
	EPMFieldPowerFactor    EPMField = "power_factor"
	EPMFieldFacMeter       EPMField = "fac_meter"
	EPMFieldPLoad          EPMField = "p_load"
	EPMFieldETotalInverter EPMField = "e_total_inverter"
	EPMFieldETotalLoad     EPMField = "e_total_load"
	EPMFieldETotalBuy      EPMField = "e_total_buy"
	EPMFieldETotalSell     EPMField = "e_total_sell"
)

type EPMDayItem struct {
	Datetime       time.Time `json:"datetime"`
	AlarmCount     int       `json:"alarm_count"`
	CurrentState   int       `json:"current_state"`
	State          int       `json:"state"`
	FaultBit       int       `json:"fault_bit"`
	IsRealtime     float64   `json:"is_relatime"`
	UAc1           float64   `json:"u_ac1"`
	UAc2           float64   `json:"u_ac2"`
	UAc3           float64   `json:"u_ac3"`
	IAc1           float64   `json:"i_ac1"`
	IAc2           float64   `json:"i_ac2"`
	IAc3           float64   `json:"i_ac3"`
	PAc1           float64   `json:"p_ac1"`
	PAc2           float64   `json:"p_ac2"`
	PAc3           float64   `json:"p_ac3"`
	PowerFactor    float64   `json:"power_factor"`
	FacMeter       float64   `json:"fac_meter"`
	PLoad          float64   `json:"p_load"`
	ETotalInverter float64   `json:"e_total_inverter"`
	ETotalLoad     float64   `json:"e_total_load"`
	ETotalBuy      float64   `json:"e_total_buy"`
	ETotalSell     float64   `json:"e_total_sell"`
}

type EPMMonthYearItem struct {
	Datetime             time.Time `json:"datetime"`
	ID                   string    `json:"id"`
	Date                 int64     `json:"date"`
	DateStr              string    `json:"dateStr"`
	TimeZone             float64   `json:"timeZone"`
	Energy               float64   `json:"energy"`
	EnergyStr            string    `json:"energyStr"`
	Money                float64   `json:"money"`
	ProduceEnergy        float64   `json:"produceEnergy"`
	ConsumeEnergy        float64   `json:"consumeEnergy"`
	BackUpEnergy         float64   `json:"backUpEnergy"`
	GeneratorEnergy      float64   `json:"generatorEnergy"`
	GeneratorPercent     float64   `json:"generatorPercent"`
	EpmBuyEnergy         float64   `json:"epmBuyEnergy"`
	EpmSellEnergy        float64   `json:"epmSellEnergy"`
	EpmLoadEnergy        float64   `json:"epmLoadEnergy"`
	GridPurchasedEnergy  float64   `json:"gridPurchasedEnergy"`
	GridPurchasedIncome  float64   `json:"gridPurchasedIncome"`
	GridPurchasedPercent float64   `json:"gridPurchasedPercent"`
	GridSellEnergy       float64   `json:"gridSellEnergy"`
	GridSellIncome       float64   `json:"gridSellIncome"`
	HomeGridEnergy       float64   `json:"homeGridEnergy"`
	GridBatteryE         float64   `json:"gridBatteryE"`
	InvAcE               float64   `json:"invAcE"`
	OneSelfPercent       float64   `json:"oneSelfPercent"`
	SystemEfficiency     float64   `json:"systemEfficiency"`
	ToConsumption        float64   `json:"toConsumption"`
	ToGrid               float64   `json:"toGrid"`
	DirectR              float64   `json:"directR"`
	DirectRKwh           float64   `json:"directRKwh"`
	TotalR               float64   `json:"totalR"`
	TotalRKwh            float64   `json:"totalRKwh"`
	ErrorFlag            int       `json:"errorFlag"`
}
