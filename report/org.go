package report

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/portfolio/aggregate"
)

// Portfolio is what the Org report renders: the summary plus the
// metrics of each backtest that went into it.
type Portfolio struct {
	Title     string
	Created   time.Time
	Summary   aggregate.Summary
	Backtests []aggregate.BacktestMetrics
	Excluded  map[string]bool
	Limits    []aggregate.LimitPoint
}

var orgFuncs = template.FuncMap{
	"pct":      pct,
	"money":    money,
	"date":     Date,
	"stamp":    Stamp,
	"duration": Duration,
	"ms":       Ms,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("portfolio").Funcs(orgFuncs).Parse(PortfolioOrgTemplate))

// WriteOrg renders p as an Org-mode block.
func WriteOrg(w io.Writer, p Portfolio) error {
	return orgTemplate.Execute(w, p)
}

const PortfolioOrgTemplate = `* PORTFOLIO: {{if .Title}}{{.Title}}{{else}}(untitled){{end}}
:PROPERTIES:
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:BACKTESTS:   {{.Summary.BacktestCount}}
:INCLUDED:    {{.Summary.IncludedCount}}
{{- if .Summary.Span.Known}}
:SPAN_START:  {{stamp .Summary.Span.Start}}
:SPAN_END:    {{stamp .Summary.Span.End}}
{{- end}}
:NET_PL:      {{money .Summary.TotalPnL}}
:MAX_DD:      {{money .Summary.MaxDrawdown}}
:MAX_RISK:    {{money .Summary.Risk.Peak}}
:MAX_BOTS:    {{.Summary.Concurrency.Max}}
:END:

** Performance Summary
- Net P/L:            *{{money .Summary.TotalPnL}}*
- Deals:              {{.Summary.TotalDeals}} ({{.Summary.ProfitDeals}} won, {{.Summary.LossDeals}} lost)
- Win Rate:           {{pct .Summary.WinRate}}
- Profit Factor:      {{if ne .Summary.ProfitFactor 0.0}}{{printf "%.2f" .Summary.ProfitFactor}}{{else}}(profit-factor?){{end}}
- P/L per Deal:       {{money .Summary.AvgPnLPerDeal}}
- P/L per Backtest:   {{money .Summary.AvgPnLPerBacktest}}
- Avg Deal Duration:  {{duration .Summary.AvgDurationSec}}
- Portfolio Drawdown: *{{money .Summary.MaxDrawdown}}*
- Worst Single DD:    {{money .Summary.WorstBacktestDrawdown}}
- Peak Risk:          {{money .Summary.Risk.Peak}}{{if .Summary.Risk.Peak}} at {{stamp .Summary.Risk.PeakAt}}{{end}}
- No-Trade Days:      {{.Summary.NoTradeDays}}

** Concurrency
| Statistic       | Value |
|-----------------+-------|
| Max             | {{.Summary.Concurrency.Max}} |
| Average         | {{printf "%.2f" .Summary.Concurrency.Average}} |
| Active Time     | {{ms .Summary.Concurrency.ActiveMs}} |
| Idle Time       | {{ms .Summary.Concurrency.ZeroSpanMs}} |
| Active Days     | {{.Summary.Daily.Stats.Days}} |
| Mean Daily Max  | {{printf "%.2f" .Summary.Daily.Stats.MeanMax}} |
| P75 Daily Max   | {{printf "%.2f" .Summary.Daily.Stats.P75}} (limit {{.Summary.Daily.Stats.Limits.P75}}) |
| P90 Daily Max   | {{printf "%.2f" .Summary.Daily.Stats.P90}} (limit {{.Summary.Daily.Stats.Limits.P90}}) |
| P95 Daily Max   | {{printf "%.2f" .Summary.Daily.Stats.P95}} (limit {{.Summary.Daily.Stats.Limits.P95}}) |
{{- if .Summary.MaxConcurrentBots}}
| Days Over Limit | {{.Summary.DaysOverLimit}} (limit {{.Summary.MaxConcurrentBots}}) |
{{- end}}

** Backtests
| ID | Name | Symbol | Net P/L | Deals | Win Rate | Max DD | Max Risk | Included |
|----+------+--------+---------+-------+----------+--------+----------+----------|
{{- range .Backtests}}
| {{.ID}} | {{.Name}} | {{.Symbol}} | {{money .PnL}} | {{.TotalDeals}} | {{pct .WinRate}} | {{money .MaxDrawdown}} | {{money .MaxRisk}} | {{if index $.Excluded .ID}}no{{else}}yes{{end}} |
{{- end}}

{{- if .Limits}}

** Position Limits
| Limit | Days Within | Share |
|-------+-------------+-------|
{{- range .Limits}}
| {{.Limit}} | {{.DaysWithin}} | {{pct .Share}} |
{{- end}}
{{- end}}
`
