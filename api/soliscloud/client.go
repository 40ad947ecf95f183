package soliscloud

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/pkg/util"
	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL       = "https://www.soliscloud.com:13333"
	ContentTypeJSON      = "application/json"
	DefaultRetryCount    = 4
	DefaultRetryInterval = 2 * time.Second
	DefaultTimeout       = 30 * time.Second
	DefaultPageSize      = 20
	InverterPageSize     = 100
)

const (
	URIStationList    = "/v1/api/userStationList"
	URIStationDetail  = "/v1/api/stationDetail"
	URIEPMList        = "/v1/api/epmList"
	URIEPMDetail      = "/v1/api/epmDetail"
	URIEPMDay         = "/v1/api/epm/day"
	URIEPMMonth       = "/v1/api/epm/month"
	URIEPMYear        = "/v1/api/epm/year"
	URICollectorList  = "/v1/api/collectorList"
	URIInverterList   = "/v1/api/inverterList"
	URIInverterDetail = "/v1/api/inverterDetail"
	URIControl        = "/v2/api/control"
	URIAtRead         = "/v2/api/atRead"
)

const (
	stationStatusKey  = "stationStatusVo"
	inverterStatusKey = "inverterStatusVo"
	epmStatusKey      = "epmStatusVo"
)

// SolisClient talks to the SolisCloud platform API. Headers are signed per
// call and never stored on the client, so one client may be shared.
type SolisClient struct {
	reqClient *req.Client
	signer    Signer
	keyID     string
	url       string
	now       func() time.Time
	logger    zerolog.Logger
}

type Option func(*SolisClient)

func WithBaseURL(url string) Option {
	return func(c *SolisClient) {
		if !util.IsEmpty(url) {
			c.url = strings.TrimRight(url, "/")
		}
	}
}

// WithRetryCount sets how many times a rate limited (HTTP 429) request is
// retried after the first attempt.
func WithRetryCount(count int) Option {
	return func(c *SolisClient) {
		c.reqClient.SetCommonRetryCount(count)
	}
}

func WithRetryInterval(interval time.Duration) Option {
	return func(c *SolisClient) {
		c.reqClient.SetCommonRetryFixedInterval(interval)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *SolisClient) {
		c.reqClient.SetTimeout(timeout)
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *SolisClient) {
		c.logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *SolisClient) {
		c.now = now
	}
}

func NewSolisClient(keyID, keySecret string, opts ...Option) *SolisClient {
	c := &SolisClient{
		signer: NewSigner(keyID, keySecret),
		keyID:  keyID,
		url:    DefaultBaseURL,
		now:    time.Now,
		logger: zerolog.New(logger.NewWriter("soliscloud_api.log")).With().Timestamp().Caller().Logger(),
	}

	c.reqClient = req.C().
		SetTimeout(DefaultTimeout).
		SetJsonUnmarshal(unmarshalJSON).
		SetCommonRetryCount(DefaultRetryCount).
		SetCommonRetryFixedInterval(DefaultRetryInterval).
		SetCommonRetryCondition(isRateLimited).
		SetCommonRetryHook(func(resp *req.Response, err error) {
			c.logger.Warn().
				Str("url", resp.Request.RawURL).
				Int("attempt", resp.Request.RetryAttempt).
				Msg("rate limit hit, retrying")
		}).
		OnBeforeRequest(func(client *req.Client, req *req.Request) error {
			c.logger.Debug().
				Str("url", req.RawURL).
				Msg("SolisClient::NewSolisClient() - requesting")
			return nil
		})

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// isRateLimited retries on HTTP 429 only, whatever the body holds. Network
// errors and every other status are handed back to the caller untouched.
func isRateLimited(resp *req.Response, err error) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests
}

func (c *SolisClient) KeyID() string {
	return c.keyID
}

// post sends a signed request. Only 2xx bodies are decoded into result; other
// bodies may be empty or plain text and are read with decodeErrorBody.
func (c *SolisClient) post(uri string, body map[string]any, result any) (*req.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request body: %w", uri, err)
	}

	url := c.url + uri
	headers := c.signer.Sign(http.MethodPost, payload, ContentTypeJSON, uri, c.now())
	resp, err := c.reqClient.R().
		SetHeaders(headers.Map()).
		SetBodyBytes(payload).
		SetSuccessResult(result).
		Post(url)

	if err != nil {
		if resp != nil && resp.Response != nil && !resp.IsSuccessState() {
			c.logger.Warn().
				Err(err).
				Str("url", url).
				Int("status_code", resp.StatusCode).
				Msg("SolisClient::post() - unreadable error response")
			return resp, nil
		}

		c.logger.Error().
			Err(err).
			Str("url", url).
			Any("body", body).
			Msg("failed to request soliscloud api")
		return nil, fmt.Errorf("failed to request %s: %w", uri, err)
	}

	return resp, nil
}

// decodeErrorBody fills v from a non-2xx body when it happens to be JSON and
// leaves v untouched otherwise.
func decodeErrorBody(resp *req.Response, v any) {
	raw := resp.Bytes()
	if len(raw) == 0 {
		return
	}
	_ = unmarshalJSON(raw, v)
}

// call posts body to uri and decodes the envelope's data into data. A non-200
// status or success=false comes back as a *ConnectError.
func (c *SolisClient) call(uri string, body map[string]any, data any) error {
	var result Response[any]
	resp, err := c.post(uri, body, &result)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var errorResult model.ApiErrorResponse
		decodeErrorBody(resp, &errorResult)
		c.logger.Error().
			Str("uri", uri).
			Int("status_code", resp.StatusCode).
			Str("error_response", errorResult.String()).
			Any("body", body).
			Msg("unexpected status from soliscloud api")
		return newStatusError(resp.StatusCode)
	}

	if !result.Success {
		c.logger.Error().
			Str("uri", uri).
			Int("status_code", resp.StatusCode).
			Any("code", result.Code).
			Str("msg", result.Msg).
			Any("body", body).
			Msg("soliscloud api rejected request")
		return newBusinessError(resp.StatusCode, result.Msg)
	}

	if data != nil {
		if err := decodeRecord(result.Data, data); err != nil {
			c.logger.Error().
				Err(err).
				Str("uri", uri).
				Msg("failed to decode soliscloud response")
			return fmt.Errorf("failed to decode %s response: %w", uri, err)
		}
	}

	c.logger.Info().
		Str("uri", uri).
		Int("status_code", resp.StatusCode).
		Any("body", body).
		Msg("request soliscloud api successfully")
	return nil
}

func (c *SolisClient) ListStations(opts ...QueryOption) (*StatusVo, []Station, error) {
	q := newQuery(DefaultPageSize, opts)
	if !util.IsEmpty(q.nmiCode) {
		q.params["NmiCode"] = q.nmiCode
	}
	return fetchAll[Station](c, URIStationList, stationStatusKey, q)
}

func (c *SolisClient) GetStationDetail(id string, opts ...QueryOption) (*Station, error) {
	q := newQuery(DefaultPageSize, opts)
	body := q.body()
	body["id"] = id
	if !util.IsEmpty(q.nmiCode) {
		body["nmiCode"] = q.nmiCode
	}

	var station Station
	if err := c.call(URIStationDetail, body, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

func (c *SolisClient) ListEPMs(opts ...QueryOption) (*StatusVo, []EPM, error) {
	q := newQuery(DefaultPageSize, opts)
	if !util.IsEmpty(q.nmiCode) {
		q.params["NmiCode"] = q.nmiCode
	}
	if !util.IsEmpty(q.stationID) {
		q.params["stationId"] = q.stationID
	}
	return fetchAll[EPM](c, URIEPMList, epmStatusKey, q)
}

func (c *SolisClient) GetEPMDetail(sn string, opts ...QueryOption) (*EPM, error) {
	body := newQuery(DefaultPageSize, opts).body()
	body["sn"] = sn

	var epm EPM
	if err := c.call(URIEPMDetail, body, &epm); err != nil {
		return nil, err
	}
	return &epm, nil
}

// GetEPMDayData returns one item per sample of the day. fields narrows the
// columns the server returns; all columns are returned when it is empty.
func (c *SolisClient) GetEPMDayData(sn string, day time.Time, timeZone int, fields ...EPMField) ([]EPMDayItem, error) {
	body := map[string]any{
		"sn":       sn,
		"time":     day.Format("2006-01-02"),
		"timeZone": timeZone,
	}
	if len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, string(f))
		}
		body["searchinfo"] = strings.Join(names, ",")
	}

	var data map[string]any
	if err := c.call(URIEPMDay, body, &data); err != nil {
		return nil, err
	}
	return reshapeDayData(data, c.logger), nil
}

func (c *SolisClient) GetEPMMonthData(sn string, month time.Time) ([]EPMMonthYearItem, error) {
	body := map[string]any{
		"sn":    sn,
		"month": month.Format("2006-01"),
	}

	var rows []any
	if err := c.call(URIEPMMonth, body, &rows); err != nil {
		return nil, err
	}
	return reshapeMonthYearData(rows, c.logger), nil
}

func (c *SolisClient) GetEPMYearData(sn string, year time.Time) ([]EPMMonthYearItem, error) {
	body := map[string]any{
		"sn":   sn,
		"year": year.Format("2006"),
	}

	var rows []any
	if err := c.call(URIEPMYear, body, &rows); err != nil {
		return nil, err
	}
	return reshapeMonthYearData(rows, c.logger), nil
}

func (c *SolisClient) ListCollectors(opts ...QueryOption) ([]Collector, error) {
	q := newQuery(DefaultPageSize, opts)
	if !util.IsEmpty(q.nmiCode) {
		q.params["nmiCode"] = q.nmiCode
	}
	if !util.IsEmpty(q.stationID) {
		q.params["stationId"] = q.stationID
	}

	_, collectors, err := fetchAll[Collector](c, URICollectorList, "", q)
	return collectors, err
}

func (c *SolisClient) ListInverters(opts ...QueryOption) (*StatusVo, []Inverter, error) {
	q := newQuery(InverterPageSize, opts)
	if !util.IsEmpty(q.stationID) {
		q.params["stationId"] = q.stationID
	}
	if !util.IsEmpty(q.nmiCode) {
		q.params["nmiCode"] = q.nmiCode
	}
	return fetchAll[Inverter](c, URIInverterList, inverterStatusKey, q)
}

func (c *SolisClient) GetInverterDetail(id, sn string, opts ...QueryOption) (*Inverter, error) {
	body := newQuery(InverterPageSize, opts).body()
	body["id"] = id
	body["sn"] = sn

	var inverter Inverter
	if err := c.call(URIInverterDetail, body, &inverter); err != nil {
		return nil, err
	}
	return &inverter, nil
}

// GetChargeDischargeSchedule reads command 103 from the inverter. It returns
// a nil schedule and no error when the inverter has none configured.
func (c *SolisClient) GetChargeDischargeSchedule(sn string) (*ChargeDischargeSchedule, error) {
	body := map[string]any{
		"inverterSn": sn,
		"cid":        CommandChargeDischargeSchedule,
	}

	var data struct {
		Msg string `json:"msg"`
	}
	if err := c.call(URIAtRead, body, &data); err != nil {
		return nil, err
	}

	if util.IsEmpty(data.Msg) {
		return nil, nil
	}

	schedule, err := DecodeSchedule(data.Msg)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("inverter_sn", sn).
			Str("value", data.Msg).
			Msg("failed to decode charge/discharge schedule")
		return nil, err
	}
	return schedule, nil
}

// SetChargeDischargeSchedule writes command 103. A rejected write is reported
// through SetResult; the error is only set when the request itself failed.
func (c *SolisClient) SetChargeDischargeSchedule(id, sn string, schedule *ChargeDischargeSchedule) (*SetResult, error) {
	body := map[string]any{
		"inverterSn": sn,
		"inverterId": id,
		"cid":        CommandChargeDischargeSchedule,
		"value":      schedule.Encode(),
	}

	var result Response[any]
	resp, err := c.post(URIControl, body, &result)
	if err != nil {
		return nil, err
	}

	setResult := &SetResult{}
	switch {
	case resp.StatusCode != http.StatusOK:
		var errorResult Response[any]
		decodeErrorBody(resp, &errorResult)
		setResult.Error = joinMessages(controlMessages(errorResult.Data), errorResult.Msg)
		if util.IsEmpty(setResult.Error) {
			setResult.Error = fmt.Sprintf("%d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
	case !result.Success:
		setResult.Error = joinMessages(controlMessages(result.Data), result.Msg)
	default:
		setResult.Success = true
		if messages := controlMessages(result.Data); len(messages) > 0 {
			setResult.Message = messages[0]
		}
	}

	event := c.logger.Info()
	if !setResult.Success {
		event = c.logger.Error()
	}
	event.
		Str("uri", URIControl).
		Int("status_code", resp.StatusCode).
		Any("body", body).
		Any("result", setResult).
		Msg("set charge/discharge schedule")

	return setResult, nil
}

func controlMessages(data any) []string {
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := decodeRecord(data, &items); err != nil {
		var item struct {
			Msg string `json:"msg"`
		}
		if err := decodeRecord(data, &item); err != nil {
			return nil
		}
		items = append(items, item)
	}

	messages := make([]string, 0, len(items))
	for _, item := range items {
		if !util.IsEmpty(item.Msg) {
			messages = append(messages, item.Msg)
		}
	}
	return messages
}

func joinMessages(messages []string, fallback string) string {
	if len(messages) == 0 {
		return fallback
	}
	return strings.Join(messages, ", ")
}
