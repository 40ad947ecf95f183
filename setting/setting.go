package setting

import "time"

const (
	CrontabCollectTime  = "*/15 6-19 * * *"
	CrontabAlarmTime    = "*/15 7-18 * * *"
	CrontabScheduleTime = "5 0 * * *"
)

const (
	SolisDefaultBaseURL = "https://www.soliscloud.com:13333"
	SolisRetryCount     = 4
	SolisRetryInterval  = 2 * time.Second
	SolisTimeout        = 30 * time.Second
	SolisPageSize       = 20
)

const (
	SolisAlarmDisconnect = "Solis-Disconnect"
	SolisAlarmFault      = "Solis-Alarm"
)
