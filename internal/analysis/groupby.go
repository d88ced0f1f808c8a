package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
)

// GroupCounts holds the number of non-missing values per selected column for
// each distinct value of a key column.
type GroupCounts struct {
	Key     string   `json:"key"`
	Columns []string `json:"columns"`
	Groups  []string `json:"groups"`
	Counts  [][]int  `json:"counts"` // Counts[group][column]
}

// GroupCount groups t by the key column and counts the non-missing values of
// each column in cols. Groups are sorted by key (numerically for numeric keys);
// rows with a missing key are dropped.
func GroupCount(t *dataset.Table, key string, cols []string) (*GroupCounts, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("group by %s: %w", key, dataset.ErrNoColumns)
	}
	keys, keyOK, err := t.Strings(key)
	if err != nil {
		return nil, fmt.Errorf("group by: %w", err)
	}
	present := make([][]bool, len(cols))
	for j, c := range cols {
		_, ok, err := t.Strings(c)
		if err != nil {
			return nil, fmt.Errorf("group by %s: %w", key, err)
		}
		present[j] = ok
	}

	idx := map[string]int{}
	var groups []string
	var counts [][]int
	for i, k := range keys {
		if !keyOK[i] {
			continue
		}
		g, ok := idx[k]
		if !ok {
			g = len(groups)
			idx[k] = g
			groups = append(groups, k)
			counts = append(counts, make([]int, len(cols)))
		}
		for j := range cols {
			if present[j][i] {
				counts[g][j]++
			}
		}
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	numericKey := t.IsNumeric(key)
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := groups[order[a]], groups[order[b]]
		if numericKey {
			fa, _ := strconv.ParseFloat(ka, 64)
			fb, _ := strconv.ParseFloat(kb, 64)
			return fa < fb
		}
		return ka < kb
	})
	res := &GroupCounts{Key: key, Columns: append([]string(nil), cols...)}
	for _, o := range order {
		res.Groups = append(res.Groups, groups[o])
		res.Counts = append(res.Counts, counts[o])
	}
	return res, nil
}

// Rows formats the counts for display with a leading header row.
func (g *GroupCounts) Rows() [][]string {
	out := [][]string{append([]string{g.Key}, g.Columns...)}
	for i, name := range g.Groups {
		row := []string{name}
		for _, c := range g.Counts[i] {
			row = append(row, strconv.Itoa(c))
		}
		out = append(out, row)
	}
	return out
}
