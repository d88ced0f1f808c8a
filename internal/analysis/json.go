package analysis

import (
	"encoding/json"
	"math"
)

// nullable maps undefined statistics to JSON null; encoding/json rejects NaN.
func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// MarshalJSON encodes NaN statistics as null.
func (c ColumnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"25%"`
		Q50    *float64 `json:"50%"`
		Q75    *float64 `json:"75%"`
		Max    *float64 `json:"max"`
	}{
		c.Column, c.Count,
		nullable(c.Mean), nullable(c.Std), nullable(c.Min),
		nullable(c.Q25), nullable(c.Q50), nullable(c.Q75), nullable(c.Max),
	})
}

// MarshalJSON encodes undefined coefficients as null.
func (m *CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j, v := range row {
			vals[i][j] = nullable(v)
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}
