package composition

import "sort"

// Table is a community x category count matrix for one field
type Table struct {
	Field      string   `json:"field" yaml:"field"`
	Categories []string `json:"categories" yaml:"categories"`
	// Rows[i][j] counts members of community i with category j.
	Rows        [][]int `json:"rows" yaml:"rows"`
	Communities []int   `json:"communities" yaml:"communities"`
}

// Crosstab pivots summaries into a Table for field. Categories are the
// union of values seen across communities, sorted; absent values count 0.
func Crosstab(summaries []Summary, field string) Table {
	set := make(map[string]struct{})
	for _, s := range summaries {
		for v := range s.Distributions[field] {
			set[v] = struct{}{}
		}
	}
	categories := make([]string, 0, len(set))
	for v := range set {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	t := Table{
		Field:       field,
		Categories:  categories,
		Rows:        make([][]int, len(summaries)),
		Communities: make([]int, len(summaries)),
	}
	for i, s := range summaries {
		row := make([]int, len(categories))
		for j, v := range categories {
			row[j] = s.Distributions[field][v]
		}
		t.Rows[i] = row
		t.Communities[i] = s.CommunityID
	}
	return t
}

// Totals returns the column sums of the table
func (t Table) Totals() []int {
	totals := make([]int, len(t.Categories))
	for _, row := range t.Rows {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}
