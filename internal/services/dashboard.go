// Package services builds the dashboard views from loaded reports.
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"radiodash/internal/core"
)

const (
	barLimit   = 15
	donutLimit = 10

	NoBarData   = "Nenhum dado para exibir no gráfico de clientes."
	NoDonutData = "Nenhum dado para exibir no gráfico de proporção."

	yes = "Sim"
	no  = "Não"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// palette follows the plotly default qualitative colors.
var palette = [...]string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

var hundred = decimal.NewFromInt(100)

// Filters is the user's selection. A nil dimension selects every value
// unless Explicit is set, in which case it selects none. Explicit marks a
// submitted filter form.
type Filters struct {
	Clients  core.Selection
	Agencies core.Selection
	Explicit bool
}

// Active reports whether the filters narrow the default selection.
func (f Filters) Active() bool {
	return f.Explicit || f.Clients != nil || f.Agencies != nil
}

type (
	Option struct {
		Value    string `json:"value"`
		Selected bool   `json:"selected"`
	}

	KPI struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// Bar is one row of the top clients chart; Width is a percentage of
	// the largest bar.
	Bar struct {
		Client     string `json:"client"`
		Insertions int64  `json:"insertions"`
		Label      string `json:"label"`
		Width      int    `json:"width"`
	}

	// Slice is one donut segment; Share is a fraction of the displayed slices.
	Slice struct {
		Client     string          `json:"client"`
		Insertions int64           `json:"insertions"`
		Share      decimal.Decimal `json:"share"`
		Percent    string          `json:"percent"`
		Color      string          `json:"color"`
	}

	TableRow struct {
		Client     string `json:"client"`
		Entered    string `json:"entered"`
		EntryDate  string `json:"entry_date"`
		Left       string `json:"left"`
		ExitDate   string `json:"exit_date"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		Insertions string `json:"insertions"`
		Code       string `json:"code"`
		Agency     string `json:"agency"`
	}

	View struct {
		Source       string         `json:"source"`
		LoadedAt     time.Time      `json:"loaded_at"`
		Stats        core.LoadStats `json:"stats"`
		Clients      []Option       `json:"clients"`
		Agencies     []Option       `json:"agencies"`
		Metrics      core.Metrics   `json:"metrics"`
		KPIs         []KPI          `json:"kpis"`
		Bars         []Bar          `json:"bars"`
		BarNotice    string         `json:"bar_notice,omitempty"`
		Slices       []Slice        `json:"slices"`
		DonutStyle   string         `json:"-"`
		DonutNotice  string         `json:"donut_notice,omitempty"`
		TableHeading string         `json:"table_heading"`
		Rows         []TableRow     `json:"rows"`
	}
)

// BuildView runs filter, aggregate and metrics over report and shapes the
// result for display. report is not modified.
func BuildView(report *core.Report, f Filters) View {
	clients, agencies := resolveFilters(report.Rows, f)
	filtered := core.Filter(report.Rows, clients, agencies)
	agg := core.AggregateByClient(filtered)
	metrics := core.ComputeMetrics(agg)

	v := View{
		Source:       report.Source,
		LoadedAt:     report.LoadedAt,
		Stats:        report.Stats,
		Clients:      options(core.Clients(report.Rows), clients),
		Agencies:     options(core.Agencies(report.Rows), agencies),
		Metrics:      metrics,
		KPIs:         kpis(metrics),
		TableHeading: TableHeading(report.LoadedAt),
		Rows:         tableRows(filtered),
	}

	v.Bars = bars(agg)
	if len(v.Bars) == 0 {
		v.BarNotice = NoBarData
	}
	v.Slices, v.DonutStyle = donut(agg)
	if len(v.Slices) == 0 {
		v.DonutNotice = NoDonutData
	}
	return v
}

func resolveFilters(rows []core.ContractRow, f Filters) (core.Selection, core.Selection) {
	return resolve(f.Clients, f.Explicit, core.Clients(rows)),
		resolve(f.Agencies, f.Explicit, core.Agencies(rows))
}

func resolve(sel core.Selection, explicit bool, all []string) core.Selection {
	switch {
	case sel != nil:
		return sel
	case explicit:
		return core.NewSelection()
	default:
		return core.NewSelection(all...)
	}
}

func options(values []string, selected core.Selection) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Selected: selected.Has(v)}
	}
	return out
}

// FormatMean renders the mean insertions with half-even rounding to an
// integer and "." as thousands separator.
func FormatMean(d decimal.Decimal) string {
	return core.FormatThousands(d.RoundBank(0).IntPart())
}

func kpis(m core.Metrics) []KPI {
	return []KPI{
		{Label: "Média de Inserções por Cliente", Value: FormatMean(m.Mean)},
		{Label: "Total de Inserções", Value: core.FormatThousands(m.Total)},
		{Label: "Total de Clientes", Value: core.FormatThousands(int64(m.Clients))},
		{Label: "Cliente Destaque", Value: m.TopClient},
	}
}

func bars(agg core.Aggregate) []Bar {
	top := core.TopN(agg, barLimit)
	if len(top) == 0 {
		return nil
	}
	max := top[0].Insertions
	out := make([]Bar, len(top))
	for i, ct := range top {
		width := 0
		if max > 0 && ct.Insertions > 0 {
			width = int((ct.Insertions*100 + max/2) / max)
			if width < 2 { // keep tiny bars visible
				width = 2
			}
		}
		out[i] = Bar{
			Client:     ct.Client,
			Insertions: ct.Insertions,
			Label:      core.FormatThousands(ct.Insertions),
			Width:      width,
		}
	}
	return out
}

// donut returns the top slices and the CSS conic-gradient drawing them. It
// returns nothing when the displayed total is not positive.
func donut(agg core.Aggregate) ([]Slice, string) {
	if agg.Sum() <= 0 {
		return nil, ""
	}
	var top core.Aggregate
	for _, ct := range core.TopN(agg, donutLimit) {
		if ct.Insertions > 0 {
			top = append(top, ct)
		}
	}
	total := decimal.NewFromInt(top.Sum())

	slices := make([]Slice, len(top))
	stops := make([]string, len(top))
	start := decimal.Zero
	for i, ct := range top {
		share := decimal.NewFromInt(ct.Insertions).Div(total)
		end := start.Add(share.Mul(hundred))
		if i == len(top)-1 {
			end = hundred
		}
		color := palette[i%len(palette)]
		slices[i] = Slice{
			Client:     ct.Client,
			Insertions: ct.Insertions,
			Share:      share,
			Percent:    formatPercent(share),
			Color:      color,
		}
		stops[i] = fmt.Sprintf("%s %s%% %s%%", color, start.StringFixed(2), end.StringFixed(2))
		start = end
	}
	return slices, "background: conic-gradient(" + strings.Join(stops, ", ") + ")"
}

// formatPercent renders a fraction as a percentage with one decimal place
// and a decimal comma, e.g. "41,7%".
func formatPercent(share decimal.Decimal) string {
	return strings.Replace(share.Mul(hundred).Round(1).StringFixed(1), ".", ",", 1) + "%"
}

func tableRows(rows []core.ContractRow) []TableRow {
	out := make([]TableRow, len(rows))
	for i, r := range rows {
		out[i] = TableRow{
			Client:     r.Client,
			Entered:    flag(r.EnteredThisMonth),
			EntryDate:  r.EntryDate.Display(),
			Left:       flag(r.LeftThisMonth),
			ExitDate:   r.ExitDate.Display(),
			StartDate:  r.StartDate.Display(),
			EndDate:    r.EndDate.Display(),
			Insertions: core.FormatThousands(r.Insertions),
			Code:       r.Code,
			Agency:     r.AgencyOrEmpty(),
		}
	}
	return out
}

func flag(b bool) string {
	if b {
		return yes
	}
	return no
}

// MonthName returns the Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// TableHeading names the movement month the report was derived against.
func TableHeading(loadedAt time.Time) string {
	return fmt.Sprintf("Dados Detalhados de Contratos (Movimentação de %s de %d)", MonthName(loadedAt.Month()), loadedAt.Year())
}
