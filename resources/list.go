package resources

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Page is the paginated envelope of list responses
type Page struct {
	Count    *int     `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Record `json:"results"`
}

// DecodeList decodes a list response, which is either a bare json array or a page envelope.
// An envelope without results decodes to an empty list.
func DecodeList(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Record{}, nil
	}

	switch trimmed[0] {
	case '[':
		records := make([]Record, 0)
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("unable to decode list: %w", err)
		}
		return records, nil
	case '{':
		page := Page{}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("unable to decode page: %w", err)
		}
		if page.Results == nil {
			return []Record{}, nil
		}
		return page.Results, nil
	default:
		return nil, fmt.Errorf("unexpected list response")
	}
}
