package holdings

import (
	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// Field resolves one logical field from the first present of several column names.
type Field struct {
	Name    string
	Aliases []string
}

var (
	CodeField   = Field{Name: "code", Aliases: []string{"股票代码", "代码"}}
	NameField   = Field{Name: "name", Aliases: []string{"股票名称", "股票简称", "简称", "名称"}}
	WeightField = Field{Name: "weight", Aliases: []string{"占净值比例", "市值占净值比", "占净资产比例"}}
)

// Lookup returns the value of the first alias present in row.
func (f Field) Lookup(row model.RawRow) (any, bool) {
	for _, k := range f.Aliases {
		if v, ok := row[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String resolves the field as trimmed text, "" when absent.
func (f Field) String(row model.RawRow) string {
	v, _ := f.Lookup(row)
	return collector.ToString(v)
}

// Float resolves the field as a number, 0 when absent or unparseable.
func (f Field) Float(row model.RawRow) float64 {
	v, ok := f.Lookup(row)
	if !ok {
		return 0
	}
	n, ok := collector.ToFloat(v)
	if !ok {
		return 0
	}
	return n
}

// toHolding maps a raw row through the alias resolvers.
func toHolding(row model.RawRow) model.Holding {
	return model.Holding{
		Code:   CodeField.String(row),
		Name:   NameField.String(row),
		Weight: WeightField.Float(row),
	}
}
