package soliscloud

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path    string
	Header  http.Header
	RawBody []byte
	Body    map[string]any
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r recordedRequest)) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		rec := recordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), RawBody: raw}
		_ = json.Unmarshal(raw, &rec.Body)

		ts.mu.Lock()
		ts.requests = append(ts.requests, rec)
		ts.mu.Unlock()

		handler(w, rec)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) Requests() []recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]recordedRequest(nil), ts.requests...)
}

func newTestClient(ts *testServer, opts ...Option) *SolisClient {
	base := []Option{
		WithBaseURL(ts.URL),
		WithLogger(zerolog.Nop()),
		WithRetryInterval(time.Millisecond),
		WithClock(func() time.Time { return signTime }),
	}
	return NewSolisClient("key", "secret", append(base, opts...)...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func success(data string) string {
	return `{"success":true,"code":"0","msg":"success","data":` + data + `}`
}

func TestSolisClient_SignedHeaders(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"id":"1001"}`))
	})

	_, err := newTestClient(ts).GetStationDetail("1001")
	require.NoError(t, err)

	requests := ts.Requests()
	require.Len(t, requests, 1)
	req := requests[0]

	assert.Equal(t, URIStationDetail, req.Path)
	assert.Equal(t, `{"id":"1001"}`, string(req.RawBody))

	want := NewSigner("key", "secret").Sign(http.MethodPost, req.RawBody, ContentTypeJSON, URIStationDetail, signTime)
	assert.Equal(t, want.Authorization, req.Header.Get(HeaderAuthorization))
	assert.Equal(t, want.ContentMD5, req.Header.Get(HeaderContentMD5))
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", req.Header.Get(HeaderDate))
	assert.Equal(t, ContentTypeJSON, req.Header.Get(HeaderContentType))
}

func TestSolisClient_ListStationsPagination(t *testing.T) {
	const pages = 3
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		pageNo := int(r.Body["pageNo"].(float64))
		records := []map[string]any{
			{"id": pageNo*10 + 1, "stationName": "a"},
			{"id": pageNo*10 + 2, "stationName": "b"},
		}
		if pageNo == pages {
			records = records[:1]
		}
		data, _ := json.Marshal(map[string]any{
			"page":            map[string]any{"current": pageNo, "pages": pages, "records": records},
			"stationStatusVo": map[string]any{"all": 5, "normal": 4, "offline": pageNo},
		})
		writeJSON(w, http.StatusOK, success(string(data)))
	})

	status, stations, err := newTestClient(ts).ListStations(WithPageSize(2), WithNmiCode("NMI"))
	require.NoError(t, err)

	requests := ts.Requests()
	require.Len(t, requests, pages)
	for i, req := range requests {
		assert.Equal(t, URIStationList, req.Path)
		assert.Equal(t, float64(i+1), req.Body["pageNo"])
		assert.Equal(t, float64(2), req.Body["pageSize"])
		assert.Equal(t, "NMI", req.Body["NmiCode"])
	}

	ids := make([]string, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"11", "12", "21", "22", "31"}, ids)
	assert.Equal(t, &StatusVo{All: 5, Normal: 4, Offline: 3}, status)
}

func TestSolisClient_ListInvertersDefaults(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"page":{"pages":1,"records":[{"sn":"INV","state":1,"pac":"1.5"}]},"inverterStatusVo":{"all":1}}`))
	})

	status, inverters, err := newTestClient(ts).ListInverters(WithStationID("1001"))
	require.NoError(t, err)
	require.Len(t, inverters, 1)
	assert.Equal(t, 1.5, inverters[0].Pac)
	assert.Equal(t, 1, status.All)

	req := ts.Requests()[0]
	assert.Equal(t, float64(InverterPageSize), req.Body["pageSize"])
	assert.Equal(t, "1001", req.Body["stationId"])
}

func TestSolisClient_StartPage(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"page":{"pages":4,"records":[{"id":"x"}]},"epmStatusVo":{}}`))
	})

	_, epms, err := newTestClient(ts).ListEPMs(WithPageNo(3))
	require.NoError(t, err)
	assert.Len(t, epms, 2)

	requests := ts.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, float64(3), requests[0].Body["pageNo"])
	assert.Equal(t, float64(4), requests[1].Body["pageNo"])
}

func TestSolisClient_RetryOnRateLimit(t *testing.T) {
	attempts := 0
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		attempts++
		if attempts < 5 {
			writeJSON(w, http.StatusTooManyRequests, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, success(`{"sn":"EPM"}`))
	})

	epm, err := newTestClient(ts).GetEPMDetail("EPM")
	require.NoError(t, err)
	assert.Equal(t, "EPM", epm.Sn)
	assert.Len(t, ts.Requests(), 5)
}

func TestSolisClient_RetryExhausted(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusTooManyRequests, `{}`)
	})

	_, err := newTestClient(ts).GetEPMDetail("EPM")
	require.Error(t, err)
	assert.Len(t, ts.Requests(), 5)

	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	assert.True(t, connectErr.IsRateLimited())
}

func TestSolisClient_NoRetryOnOtherStatus(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusForbidden, `{"error":"denied"}`)
	})

	_, err := newTestClient(ts).GetStationDetail("1")
	require.Error(t, err)
	assert.Len(t, ts.Requests(), 1)
	assert.EqualError(t, err, "there was an error - 403 - Forbidden")

	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, http.StatusForbidden, connectErr.StatusCode)
	assert.False(t, connectErr.IsRateLimited())
}

func TestSolisClient_RetryOnRateLimitNonJSONBody(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "text": "Too Many Requests"} {
		t.Run(name, func(t *testing.T) {
			attempts := 0
			ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
				attempts++
				if attempts < 5 {
					writeText(w, http.StatusTooManyRequests, "text/plain", body)
					return
				}
				writeJSON(w, http.StatusOK, success(`{"id":"1001"}`))
			})

			station, err := newTestClient(ts).GetStationDetail("1001")
			require.NoError(t, err)
			assert.Equal(t, "1001", station.ID)
			assert.Len(t, ts.Requests(), 5)
		})
	}
}

func TestSolisClient_RetryExhaustedNonJSONBody(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "text": "Too Many Requests"} {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
				writeText(w, http.StatusTooManyRequests, "text/plain", body)
			})

			_, err := newTestClient(ts).GetStationDetail("1001")
			require.Error(t, err)
			assert.Len(t, ts.Requests(), 5)

			var connectErr *ConnectError
			require.ErrorAs(t, err, &connectErr)
			assert.True(t, connectErr.IsRateLimited())
		})
	}
}

func TestSolisClient_NonJSONErrorStatus(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeText(w, http.StatusBadGateway, "text/html", "<html><body>502 Bad Gateway</body></html>")
	})

	_, err := newTestClient(ts).GetStationDetail("1")
	require.Error(t, err)
	assert.Len(t, ts.Requests(), 1)
	assert.EqualError(t, err, "there was an error - 502 - Bad Gateway")

	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, http.StatusBadGateway, connectErr.StatusCode)
	assert.Equal(t, "Bad Gateway", connectErr.Reason)
}

func TestSolisClient_PageFailureDiscardsRecords(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		if r.Body["pageNo"].(float64) == 2 {
			writeJSON(w, http.StatusInternalServerError, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, success(`{"page":{"pages":3,"records":[{"id":"1"}]}}`))
	})

	status, stations, err := newTestClient(ts).ListStations()
	require.Error(t, err)
	assert.Nil(t, status)
	assert.Nil(t, stations)
	assert.Len(t, ts.Requests(), 2)
}

func TestSolisClient_BusinessFailure(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, `{"success":false,"code":"B0107","msg":"station not found"}`)
	})

	_, err := newTestClient(ts).GetStationDetail("404")
	require.Error(t, err)

	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, http.StatusOK, connectErr.StatusCode)
	assert.Equal(t, "station not found", connectErr.Message)
	assert.Contains(t, err.Error(), "station not found")
}

func TestSolisClient_UnknownAndMissingFields(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"id":"7","sn":"INV","brandNewField":{"nested":true},"state":2,"eToday":3.25}`))
	})

	inverter, err := newTestClient(ts).GetInverterDetail("7", "INV")
	require.NoError(t, err)
	assert.Equal(t, "7", inverter.ID)
	assert.Equal(t, "INV", inverter.Sn)
	assert.Equal(t, InverterStateOffline, inverter.State)
	assert.Equal(t, 3.25, inverter.EToday)
	assert.Zero(t, inverter.Pac)
	assert.Empty(t, inverter.StationName)

	req := ts.Requests()[0]
	assert.Equal(t, "7", req.Body["id"])
	assert.Equal(t, "INV", req.Body["sn"])
}

func TestSolisClient_GetChargeDischargeSchedule(t *testing.T) {
	msg := "10,5,00:00-06:00,17:00-21:00,0,0,00:00-00:00,00:00-00:00,0,0,00:00-00:00,00:00-00:00"
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"msg":"`+msg+`"}`))
	})

	schedule, err := newTestClient(ts).GetChargeDischargeSchedule("INV")
	require.NoError(t, err)
	assert.Equal(t, exampleSchedule(), schedule)

	req := ts.Requests()[0]
	assert.Equal(t, URIAtRead, req.Path)
	assert.Equal(t, "INV", req.Body["inverterSn"])
	assert.Equal(t, float64(CommandChargeDischargeSchedule), req.Body["cid"])
}

func TestSolisClient_GetChargeDischargeScheduleEmpty(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"msg":""}`))
	})

	schedule, err := newTestClient(ts).GetChargeDischargeSchedule("INV")
	require.NoError(t, err)
	assert.Nil(t, schedule)
}

func TestSolisClient_SetChargeDischargeSchedule(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`[{"code":"0","msg":"ok"},{"code":"0","msg":"saved"}]`))
	})

	result, err := newTestClient(ts).SetChargeDischargeSchedule("42", "INV", exampleSchedule())
	require.NoError(t, err)
	assert.Equal(t, &SetResult{Success: true, Message: "ok"}, result)

	req := ts.Requests()[0]
	assert.Equal(t, URIControl, req.Path)
	assert.Equal(t, "42", req.Body["inverterId"])
	assert.Equal(t, "INV", req.Body["inverterSn"])
	assert.Equal(t, exampleSchedule().Encode(), req.Body["value"])
}

func TestSolisClient_SetChargeDischargeScheduleRejected(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, `{"success":false,"msg":"fail","data":[{"msg":"offline"},{"msg":"timeout"}]}`)
	})

	result, err := newTestClient(ts).SetChargeDischargeSchedule("42", "INV", exampleSchedule())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "offline, timeout", result.Error)
}

func TestSolisClient_SetChargeDischargeScheduleHTTPError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusBadGateway, `{}`)
	})

	result, err := newTestClient(ts).SetChargeDischargeSchedule("42", "INV", exampleSchedule())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "502 - Bad Gateway", result.Error)
}

func TestSolisClient_SetChargeDischargeScheduleNonJSONError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeText(w, http.StatusForbidden, "text/plain", "Forbidden")
	})

	result, err := newTestClient(ts).SetChargeDischargeSchedule("42", "INV", exampleSchedule())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "403 - Forbidden", result.Error)
}

func TestSolisClient_GetEPMDayData(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{
			"data_timestamp": [1714521600000, null, 1714521900000],
			"p_ac1": [100.5, 200, 300.25],
			"e_total_buy": ["1.5", "2", "3"],
			"state": [1, 1, 2]
		}`))
	})

	items, err := newTestClient(ts).GetEPMDayData("EPM", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 7, EPMFieldPAc1, EPMFieldETotalBuy)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, time.UnixMilli(1714521600000), items[0].Datetime)
	assert.Equal(t, 100.5, items[0].PAc1)
	assert.Equal(t, 1.5, items[0].ETotalBuy)
	assert.Equal(t, 300.25, items[1].PAc1)
	assert.Equal(t, 2, items[1].State)

	req := ts.Requests()[0]
	assert.Equal(t, URIEPMDay, req.Path)
	assert.Equal(t, "2024-05-01", req.Body["time"])
	assert.Equal(t, float64(7), req.Body["timeZone"])
	assert.Equal(t, "p_ac1,e_total_buy", req.Body["searchinfo"])
}

func TestSolisClient_GetEPMMonthData(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`[
			{"date": 1714521600000, "energy": 12.5, "epmBuyEnergy": 3},
			{"date": "not-a-date", "energy": 1},
			{"date": 1714608000000, "energy": 9}
		]`))
	})

	items, err := newTestClient(ts).GetEPMMonthData("EPM", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, time.UnixMilli(1714521600000), items[0].Datetime)
	assert.Equal(t, 12.5, items[0].Energy)
	assert.Equal(t, float64(3), items[0].EpmBuyEnergy)
	assert.Equal(t, float64(9), items[1].Energy)

	req := ts.Requests()[0]
	assert.Equal(t, URIEPMMonth, req.Path)
	assert.Equal(t, "2024-05", req.Body["month"])
}

func TestSolisClient_GetEPMYearData(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`[{"date": 1704067200000, "energy": 100}]`))
	})

	items, err := newTestClient(ts).GetEPMYearData("EPM", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, float64(100), items[0].Energy)
	assert.Equal(t, "2024", ts.Requests()[0].Body["year"])
}

func TestSolisClient_ListCollectors(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSON(w, http.StatusOK, success(`{"page":{"pages":1,"records":[{"id":"c1","sn":"COL","rssi":-60}]}}`))
	})

	collectors, err := newTestClient(ts).ListCollectors(WithStationID("1001"))
	require.NoError(t, err)
	require.Len(t, collectors, 1)
	assert.Equal(t, -60, collectors[0].Rssi)
	assert.Equal(t, "1001", ts.Requests()[0].Body["stationId"])
}

func TestSolisClient_ConvenienceMethods(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r recordedRequest) {
		switch r.Path {
		case URIInverterList:
			writeJSON(w, http.StatusOK, success(`{"page":{"pages":1,"records":[{"id":"9","sn":"INV"}]}}`))
		case URIAtRead:
			writeJSON(w, http.StatusOK, success(`{"msg":""}`))
		default:
			writeJSON(w, http.StatusNotFound, `{}`)
		}
	})
	c := newTestClient(ts)

	_, inverters, err := Station{ID: "1001"}.ListInverters(c)
	require.NoError(t, err)
	require.Len(t, inverters, 1)
	assert.Equal(t, "1001", ts.Requests()[0].Body["stationId"])

	schedule, err := inverters[0].GetSchedule(c)
	require.NoError(t, err)
	assert.Nil(t, schedule)
}
