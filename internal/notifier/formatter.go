package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// hkNote is appended to every report that contains Hong Kong holdings.
const hkNote = "ℹ️ 港股涨跌未做汇率折算，仅供参考"

// changeMark colors a move the way mainland quotes do: red up, green down.
func changeMark(v float64) string {
	switch {
	case v > 0:
		return "🔴"
	case v < 0:
		return "🟢"
	default:
		return "⚪"
	}
}

// FormatResultSet formats one valuation cycle into a Telegram HTML message.
func FormatResultSet(rs *model.ResultSet) string {
	var b strings.Builder
	if rs == nil {
		return "⏳ 暂无估值结果，请稍后再试"
	}

	b.WriteString(fmt.Sprintf("📊 <b>基金实时估值</b> | %s\n\n", rs.FinishedAt.Format("2006-01-02 15:04")))

	hasHK := false
	for _, r := range rs.Results {
		b.WriteString(formatSummaryLine(r))
		if r.HKHoldingCount > 0 {
			hasHK = true
		}
	}

	if rs.Snapshot.Error != "" {
		b.WriteString(fmt.Sprintf("\n❌ 行情获取失败: %s\n", html.EscapeString(rs.Snapshot.Error)))
	} else if rs.Snapshot.HKDegraded {
		b.WriteString("\n⚠️ 港股行情暂不可用，港股持仓按 0 计\n")
	}
	if hasHK {
		b.WriteString("\n" + hkNote + "\n")
	}
	return b.String()
}

func formatSummaryLine(r model.FundValuationResult) string {
	name := html.EscapeString(r.FundName)
	switch r.Status {
	case model.StatusNoData:
		return fmt.Sprintf("⚪ %s (%s): 暂无持仓数据\n", name, r.FundCode)
	case model.StatusError:
		return fmt.Sprintf("❌ %s (%s): %s\n", name, r.FundCode, html.EscapeString(r.StatusText()))
	default:
		return fmt.Sprintf("%s %s (%s): <b>%+.2f%%</b> %s\n",
			changeMark(r.EstimatedChangePercent), name, r.FundCode, r.EstimatedChangePercent, r.StatusText())
	}
}

// FormatFundDetail formats the per-holding breakdown of one fund.
func FormatFundDetail(r model.FundValuationResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>%s</b> (%s)\n", html.EscapeString(r.FundName), r.FundCode))

	if r.Status == model.StatusNoData || r.Status == model.StatusError {
		b.WriteString(formatSummaryLine(r))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("估算涨跌: <b>%+.2f%%</b> %s\n", r.EstimatedChangePercent, r.StatusText()))
	if r.Period != "" {
		b.WriteString(fmt.Sprintf("持仓期: %s\n", html.EscapeString(r.Period)))
	}
	b.WriteString(fmt.Sprintf("匹配行情: %d/%d\n\n", r.Matched(), len(r.Details)))

	for _, d := range r.Details {
		if !d.Found {
			b.WriteString(fmt.Sprintf("  %s %s %s 占比%.2f%% 无行情\n",
				d.Market.Flag(), d.Code, html.EscapeString(d.Name), d.Weight))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s 占比%.2f%% 涨跌%+.2f%% 贡献%+.3f%%\n",
			d.Market.Flag(), d.Code, html.EscapeString(d.Name), d.Weight, d.ChangePercent, d.Contribution))
	}
	if r.HKHoldingCount > 0 {
		b.WriteString("\n" + hkNote + "\n")
	}
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "可用命令:\n• /valuate 立即估值\n• /fund 基金代码 查看持仓明细\n• /list 查看最新估值"
}
