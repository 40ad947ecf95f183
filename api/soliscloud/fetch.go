package soliscloud

import "fmt"

// fetchAll drains a paginated listing starting at q.pageNo. The status
// summary of the last page is returned; records keep server order and are
// discarded if any page fails.
func fetchAll[T any](c *SolisClient, uri, statusKey string, q *query) (*StatusVo, []T, error) {
	status := &StatusVo{}
	records := make([]T, 0)
	pageNo := q.pageNo

	for {
		body := q.body()
		body["pageNo"] = pageNo
		body["pageSize"] = q.pageSize

		var data map[string]any
		if err := c.call(uri, body, &data); err != nil {
			return nil, nil, err
		}

		var page Page
		if err := decodeRecord(data["page"], &page); err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s page %d: %w", uri, pageNo, err)
		}

		if statusKey != "" {
			status = &StatusVo{}
			if err := decodeRecord(data[statusKey], status); err != nil {
				return nil, nil, fmt.Errorf("failed to decode %s %s: %w", uri, statusKey, err)
			}
		}

		for i, raw := range page.Records {
			var record T
			if err := decodeRecord(raw, &record); err != nil {
				return nil, nil, fmt.Errorf("failed to decode %s page %d record %d: %w", uri, pageNo, i, err)
			}
			records = append(records, record)
		}

		c.logger.Debug().
			Str("uri", uri).
			Int("page_no", pageNo).
			Int("pages", page.Pages).
			Int("records", len(page.Records)).
			Msg("fetched page")

		if page.Pages <= pageNo {
			break
		}
		pageNo++
	}

	return status, records, nil
}
