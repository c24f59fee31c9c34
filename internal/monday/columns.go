package monday

import (
	"maps"
	"slices"
	"strings"
)

// Deal fields that can be mapped to board columns.
// Stage entry dates are keyed by the stage catalog keys (prospect, opportunity, ...).
const (
	FieldStatus        = "status"
	FieldStage         = "stage"
	FieldOwner         = "owner"
	FieldCompany       = "company"
	FieldPerformance   = "performance"
	FieldContractValue = "contract_value"
	FieldMonthlyValue  = "monthly_value"
	FieldCloseDate     = "close_date"
)

// defaultColumns is the layout of the sales board the tool was built for.
var defaultColumns = map[string]string{
	FieldStatus:        "status2",
	FieldStage:         "status6__1",
	FieldOwner:         "dropdown_mksy1g2t",
	FieldCompany:       "text_company",
	FieldPerformance:   "pessoas1__1",
	FieldContractValue: "n_meros5",
	FieldMonthlyValue:  "formula_mkrcbxzb",
	FieldCloseDate:     "date_mkrbckxw",
	"prospect":         "data7__1",
	"opportunity":      "date2",
	"forecast":         "date",
	"closed":           "data_mkm88e9q",
	"contract":         "date_mkqz73j2",
	"onhold":           "date_mksxtcqj",
}

var dealFields = map[string]struct{}{
	FieldStatus: {}, FieldStage: {}, FieldOwner: {}, FieldCompany: {},
	FieldPerformance: {}, FieldContractValue: {}, FieldMonthlyValue: {}, FieldCloseDate: {},
}

// ColumnMap maps deal fields and stage keys to board column ids.
type ColumnMap map[string]string

// DefaultColumns returns a copy of the default column layout.
func DefaultColumns() ColumnMap {
	return maps.Clone(defaultColumns)
}

// NewColumnMap applies overrides on top of the default layout. Keys are case-insensitive.
func NewColumnMap(overrides map[string]string) ColumnMap {
	cm := DefaultColumns()
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			cm[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
	return cm
}

// IDs returns the distinct column ids to request, sorted.
func (cm ColumnMap) IDs() []string {
	seen := make(map[string]struct{}, len(cm))
	for _, id := range cm {
		seen[id] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// StageDateKeys returns the mapped keys that are not deal fields, sorted.
func (cm ColumnMap) StageDateKeys() []string {
	var keys []string
	for k := range cm {
		if _, ok := dealFields[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
