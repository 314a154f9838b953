// Package holdings obtains the latest disclosed top holdings of a fund and
// reduces the provider's raw rows to a canonical list.
package holdings

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// Schema is the disclosure-period layout detected in a raw batch.
type Schema string

const (
	SchemaYearQuarter Schema = "year_quarter"
	SchemaQuarter     Schema = "quarter"
	SchemaReportDate  Schema = "report_date"
	SchemaYear        Schema = "year"
	SchemaUnknown     Schema = "unknown"
)

const (
	yearColumn    = "年份"
	quarterColumn = "季度"
)

type periodColumn struct {
	schema  Schema
	columns []string
	numeric bool
}

// probed in order; the first column found decides the schema
var periodColumns = []periodColumn{
	{schema: SchemaQuarter, columns: []string{quarterColumn}},
	{schema: SchemaReportDate, columns: []string{"截止报告期", "报告期"}},
	{schema: SchemaYear, columns: []string{yearColumn}, numeric: true},
}

// Reconciled is the canonical view of one raw holdings batch.
type Reconciled struct {
	Schema Schema
	Period string
	Items  []model.Holding
}

// Reconcile picks the latest disclosure period in rows and maps its rows to
// holdings. Items are ordered by weight descending (stable, so equal weights
// keep disclosed order) and truncated to model.MaxHoldings. Rows with no code
// are dropped. When no period column is recognized the first MaxHoldings rows
// are used unfiltered.
func Reconcile(rows []model.RawRow) Reconciled {
	if len(rows) == 0 {
		return Reconciled{Schema: SchemaUnknown}
	}

	if hasColumn(rows, yearColumn) && hasColumn(rows, quarterColumn) && !quarterEmbedsYear(rows) {
		return reconcileYearQuarter(rows)
	}

	pc, column, ok := detectPeriodColumn(rows)
	if !ok {
		log.Printf("[WARN] Unrecognized holdings layout, using first %d rows; columns: %s",
			model.MaxHoldings, strings.Join(columnNames(rows[0]), ", "))
		head := rows
		if len(head) > model.MaxHoldings {
			head = head[:model.MaxHoldings]
		}
		return Reconciled{Schema: SchemaUnknown, Items: rank(head)}
	}

	period := latestPeriod(rows, column, pc.numeric)
	var selected []model.RawRow
	for _, row := range rows {
		if collector.ToString(row[column]) == period {
			selected = append(selected, row)
		}
	}
	return Reconciled{Schema: pc.schema, Period: period, Items: rank(selected)}
}

// reconcileYearQuarter handles separate year and bare quarter columns
// (年份=2025, 季度=1): the latest year wins, then the latest quarter within it.
func reconcileYearQuarter(rows []model.RawRow) Reconciled {
	year := latestPeriod(rows, yearColumn, true)
	var inYear []model.RawRow
	for _, row := range rows {
		if collector.ToString(row[yearColumn]) == year {
			inYear = append(inYear, row)
		}
	}
	quarter := latestPeriod(inYear, quarterColumn, true)
	var selected []model.RawRow
	for _, row := range inYear {
		if collector.ToString(row[quarterColumn]) == quarter {
			selected = append(selected, row)
		}
	}
	return Reconciled{
		Schema: SchemaYearQuarter,
		Period: year + "年" + quarter + "季度",
		Items:  rank(selected),
	}
}

func hasColumn(rows []model.RawRow, column string) bool {
	for _, row := range rows {
		if _, ok := row[column]; ok {
			return true
		}
	}
	return false
}

// quarterEmbedsYear reports whether quarter labels carry their own year ("2025年1季度").
func quarterEmbedsYear(rows []model.RawRow) bool {
	for _, row := range rows {
		if strings.Contains(collector.ToString(row[quarterColumn]), "年") {
			return true
		}
	}
	return false
}

func detectPeriodColumn(rows []model.RawRow) (periodColumn, string, bool) {
	for _, pc := range periodColumns {
		for _, row := range rows {
			for _, col := range pc.columns {
				if _, ok := row[col]; ok {
					return pc, col, true
				}
			}
		}
	}
	return periodColumn{}, "", false
}

// latestPeriod returns the greatest period label in column. Labels embed the
// year first, so string order is chronological. Years compare numerically
// when every label parses.
func latestPeriod(rows []model.RawRow, column string, numeric bool) string {
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		if s := collector.ToString(row[column]); s != "" {
			labels = append(labels, s)
		}
	}
	if len(labels) == 0 {
		return ""
	}

	if numeric {
		best, bestVal, allNumeric := "", 0.0, true
		for _, s := range labels {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				allNumeric = false
				break
			}
			if best == "" || v > bestVal {
				best, bestVal = s, v
			}
		}
		if allNumeric {
			return best
		}
	}

	best := labels[0]
	for _, s := range labels[1:] {
		if s > best {
			best = s
		}
	}
	return best
}

// rank maps rows to holdings, drops empty codes, sorts by weight and truncates.
func rank(rows []model.RawRow) []model.Holding {
	items := make([]model.Holding, 0, len(rows))
	for _, row := range rows {
		h := toHolding(row)
		if h.Code == "" {
			continue
		}
		items = append(items, h)
	}
	return topByWeight(items)
}

func topByWeight(items []model.Holding) []model.Holding {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Weight > items[j].Weight
	})
	if len(items) > model.MaxHoldings {
		items = items[:model.MaxHoldings]
	}
	return items
}

func columnNames(row model.RawRow) []string {
	names := make([]string, 0, len(row))
	for k := range row {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
