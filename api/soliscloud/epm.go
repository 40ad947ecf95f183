package soliscloud

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const dayTimestampKey = "data_timestamp"

// reshapeDayData turns the column-oriented /v1/api/epm/day payload, one
// array per field plus a shared data_timestamp array, into one item per
// timestamp. Rows that cannot be assembled are skipped.
func reshapeDayData(data map[string]any, log zerolog.Logger) []EPMDayItem {
	items := make([]EPMDayItem, 0)
	timestamps, ok := data[dayTimestampKey].([]any)
	if !ok {
		return items
	}

	for i, ts := range timestamps {
		item, err := dayItemAt(data, i, ts)
		if err != nil {
			log.Warn().
				Err(err).
				Int("row", i).
				Any("timestamp", ts).
				Msg("skipping malformed epm day row")
			continue
		}
		items = append(items, *item)
	}

	return items
}

func dayItemAt(data map[string]any, index int, ts any) (*EPMDayItem, error) {
	if ts == nil {
		return nil, errors.New("missing timestamp")
	}

	var millis int64
	if err := decodeRecord(ts, &millis); err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	row := make(map[string]any, len(data))
	for key, column := range data {
		if key == dayTimestampKey {
			continue
		}

		values, ok := column.([]any)
		if !ok {
			continue
		}
		if index >= len(values) {
			return nil, fmt.Errorf("column %s has %d values, need %d", key, len(values), index+1)
		}
		row[key] = values[index]
	}

	item := &EPMDayItem{}
	if err := decodeRecord(row, item); err != nil {
		return nil, err
	}
	item.Datetime = time.UnixMilli(millis)
	return item, nil
}

// reshapeMonthYearData decodes one item per row and derives Datetime from
// the millisecond date field. Malformed rows are skipped.
func reshapeMonthYearData(rows []any, log zerolog.Logger) []EPMMonthYearItem {
	items := make([]EPMMonthYearItem, 0, len(rows))
	for i, row := range rows {
		var item EPMMonthYearItem
		if err := decodeRecord(row, &item); err != nil {
			log.Warn().
				Err(err).
				Int("row", i).
				Msg("skipping malformed epm month/year row")
			continue
		}
		if item.Date != 0 {
			item.Datetime = time.UnixMilli(item.Date)
		}
		items = append(items, item)
	}
	return items
}
