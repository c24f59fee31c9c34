package monday

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/dealflow/schema"
)

const itemFields = `cursor items { id name column_values(ids: $columns) { id text ... on FormulaValue { display_value } ... on MirrorValue { display_value } } }`

var (
	firstItemsQuery = `query ($board: [ID!], $limit: Int!, $columns: [String!]) { boards(ids: $board) { items_page(limit: $limit) { ` + itemFields + ` } } }`
	nextItemsQuery  = `query ($cursor: String!, $limit: Int!, $columns: [String!]) { next_items_page(cursor: $cursor, limit: $limit) { ` + itemFields + ` } }`
)

type columnValue struct {
	ID           string  `json:"id"`
	Text         *string `json:"text"`
	DisplayValue *string `json:"display_value"`
}

type item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []columnValue `json:"column_values"`
}

type itemsPage struct {
	Cursor *string `json:"cursor"`
	Items  []item  `json:"items"`
}

// FetchDeals walks the board's items with cursor pagination, pacing each page.
func (c *Client) FetchDeals(ctx context.Context) ([]schema.Deal, error) {
	columns := c.columns.IDs()
	var deals []schema.Deal
	cursor := ""
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		p, err := c.fetchItemsPage(ctx, cursor, columns)
		if err != nil {
			return nil, fmt.Errorf("fetch items page %d: %w", page, err)
		}
		for _, it := range p.Items {
			deals = append(deals, c.toDeal(it))
		}
		if p.Cursor == nil || *p.Cursor == "" {
			return deals, nil
		}
		cursor = *p.Cursor
	}
}

func (c *Client) fetchItemsPage(ctx context.Context, cursor string, columns []string) (itemsPage, error) {
	vars := map[string]any{"limit": c.itemsLimit, "columns": columns}
	if cursor == "" {
		vars["board"] = []string{c.boardID}
		var out struct {
			Boards []struct {
				ItemsPage itemsPage `json:"items_page"`
			} `json:"boards"`
		}
		if err := c.do(ctx, firstItemsQuery, vars, &out); err != nil {
			return itemsPage{}, err
		}
		if len(out.Boards) == 0 {
			return itemsPage{}, fmt.Errorf("%w: board %s not found", ErrGraphQL, c.boardID)
		}
		return out.Boards[0].ItemsPage, nil
	}
	vars["cursor"] = cursor
	var out struct {
		NextItemsPage itemsPage `json:"next_items_page"`
	}
	if err := c.do(ctx, nextItemsQuery, vars, &out); err != nil {
		return itemsPage{}, err
	}
	return out.NextItemsPage, nil
}

// toDeal maps an item onto a Deal through the column map. Missing columns stay empty.
func (c *Client) toDeal(it item) schema.Deal {
	texts := make(map[string]string, len(it.ColumnValues))
	for _, cv := range it.ColumnValues {
		var v string
		if cv.Text != nil {
			v = *cv.Text
		}
		if v == "" && cv.DisplayValue != nil {
			v = *cv.DisplayValue
		}
		texts[cv.ID] = strings.TrimSpace(v)
	}
	get := func(field string) string { return texts[c.columns[field]] }

	d := schema.Deal{
		ID:            it.ID,
		Name:          it.Name,
		Status:        get(FieldStatus),
		Stage:         get(FieldStage),
		Owner:         get(FieldOwner),
		Company:       get(FieldCompany),
		Performance:   get(FieldPerformance),
		ContractValue: get(FieldContractValue),
		MonthlyValue:  get(FieldMonthlyValue),
		CloseDate:     get(FieldCloseDate),
	}
	if strings.EqualFold(d.Status, c.activeLabel) {
		d.Status = schema.StatusActive
	}
	for _, key := range c.columns.StageDateKeys() {
		if v := get(key); v != "" {
			if d.StageEntryDates == nil {
				d.StageEntryDates = make(map[string]string)
			}
			d.StageEntryDates[key] = v
		}
	}
	return d
}
