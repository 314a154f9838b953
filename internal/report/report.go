// Package report renders result sets as markdown for terminals and the API.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

const hkNote = "> 港股涨跌未做汇率折算，仅供参考。"

// Markdown renders a result set as a markdown document. With details set,
// every valued fund gets its contribution table.
func Markdown(rs *model.ResultSet, details bool) string {
	var b strings.Builder
	b.WriteString("# 基金实时估值\n\n")
	if rs == nil {
		b.WriteString("暂无估值结果。\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("_%s · 周期 %s · 行情 A股 %d / 港股 %d_\n\n",
		rs.FinishedAt.Format("2006-01-02 15:04:05"), shortID(rs.CycleID), rs.Snapshot.DomesticCount, rs.Snapshot.HKCount))
	if rs.Snapshot.Error != "" {
		b.WriteString(fmt.Sprintf("**行情获取失败:** %s\n\n", cell(rs.Snapshot.Error)))
	} else if rs.Snapshot.HKDegraded {
		b.WriteString("**港股行情暂不可用，港股持仓按 0 计。**\n\n")
	}

	b.WriteString("| 基金 | 代码 | 估算涨跌 | 状态 | 匹配 | 持仓期 |\n")
	b.WriteString("|---|---|---:|---|---:|---|\n")
	hasHK := false
	for _, r := range rs.Results {
		change := "-"
		if r.Status == model.StatusDomestic || r.Status == model.StatusHK {
			change = fmt.Sprintf("%+.2f%%", r.EstimatedChangePercent)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d/%d | %s |\n",
			cell(r.FundName), r.FundCode, change, cell(r.StatusText()), r.Matched(), len(r.Details), cell(r.Period)))
		if r.HKHoldingCount > 0 {
			hasHK = true
		}
	}

	if details {
		for _, r := range rs.Results {
			if len(r.Details) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("\n## %s (%s)\n\n", cell(r.FundName), r.FundCode))
			b.WriteString("| 市场 | 代码 | 名称 | 占比 | 涨跌 | 贡献 |\n")
			b.WriteString("|---|---|---|---:|---:|---:|\n")
			for _, d := range r.Details {
				change, contrib := "无行情", "0"
				if d.Found {
					change = fmt.Sprintf("%+.2f%%", d.ChangePercent)
					contrib = fmt.Sprintf("%+.3f%%", d.Contribution)
				}
				b.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f%% | %s | %s |\n",
					d.Market.Flag(), d.Code, cell(d.Name), d.Weight, change, contrib))
			}
		}
	}

	if hasHK {
		b.WriteString("\n" + hkNote + "\n")
	}
	return b.String()
}

// Render formats markdown for a terminal. On renderer failure the raw markdown is returned.
func Render(md string, width int) string {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
