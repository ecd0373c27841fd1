package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiodash/internal/core"
)

var october2026 = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func testReport(t *testing.T) *core.Report {
	t.Helper()
	raw := []core.RawRow{
		{Client: "Acme", Insertions: "1200", StartDate: "01/10/2026", EndDate: "31/12/2026", Code: "C1"},
		{Client: "Beta", Agency: "Norte", HasAgency: true, Insertions: "300", StartDate: "15/09/2026", EndDate: "05/10/2026", Code: "C2"},
		{Client: "Gama", Agency: "Sul", HasAgency: true, Insertions: "300", StartDate: "2025-01-01", Code: "C3"},
		{Client: "Acme", Agency: "Sul", HasAgency: true, Insertions: "0", StartDate: "bad"},
	}
	return core.NewReport("memory:test", raw, october2026, core.ParseOptions{})
}

func TestBuildView_DefaultSelectsEverything(t *testing.T) {
	v := BuildView(testReport(t), Filters{})

	assert.Equal(t, []Option{{"Acme", true}, {"Beta", true}, {"Gama", true}}, v.Clients)
	assert.Equal(t, []Option{{"Norte", true}, {"Sul", true}}, v.Agencies)
	require.Len(t, v.Rows, 4)

	assert.Equal(t, []KPI{
		{Label: "Média de Inserções por Cliente", Value: "600"},
		{Label: "Total de Inserções", Value: "1.800"},
		{Label: "Total de Clientes", Value: "3"},
		{Label: "Cliente Destaque", Value: "Acme"},
	}, v.KPIs)
	assert.Equal(t, "Dados Detalhados de Contratos (Movimentação de Outubro de 2026)", v.TableHeading)
}

func TestBuildView_TableRows(t *testing.T) {
	v := BuildView(testReport(t), Filters{})

	assert.Equal(t, TableRow{
		Client: "Acme", Entered: "Sim", EntryDate: "01/10/2026", Left: "Não",
		StartDate: "01/10/2026", EndDate: "31/12/2026", Insertions: "1.200", Code: "C1",
	}, v.Rows[0])
	assert.Equal(t, "Sim", v.Rows[1].Left)
	assert.Equal(t, "05/10/2026", v.Rows[1].ExitDate)
	assert.Equal(t, "Não", v.Rows[1].Entered)
	assert.Empty(t, v.Rows[1].EntryDate)
	assert.Empty(t, v.Rows[3].StartDate, "malformed dates render empty")
}

func TestBuildView_ExplicitFilters(t *testing.T) {
	v := BuildView(testReport(t), Filters{
		Clients:  core.NewSelection("Acme", "Beta"),
		Agencies: core.NewSelection("Norte"),
		Explicit: true,
	})

	require.Len(t, v.Rows, 2, "Acme without agency passes, Acme/Sul is filtered out")
	assert.Equal(t, "Acme", v.Rows[0].Client)
	assert.Equal(t, "Beta", v.Rows[1].Client)
	assert.Equal(t, []Option{{"Acme", true}, {"Beta", true}, {"Gama", false}}, v.Clients)
	assert.Equal(t, []Option{{"Norte", true}, {"Sul", false}}, v.Agencies)
	assert.EqualValues(t, 1500, v.Metrics.Total)
}

func TestBuildView_UnsetDimensionSelectsEverything(t *testing.T) {
	v := BuildView(testReport(t), Filters{Clients: core.NewSelection("Acme")})

	require.Len(t, v.Rows, 2, "Acme rows pass with and without an agency")
	assert.Equal(t, []Option{{"Norte", true}, {"Sul", true}}, v.Agencies)
	assert.EqualValues(t, 1200, v.Metrics.Total)

	v = BuildView(testReport(t), Filters{Clients: core.NewSelection("Acme"), Explicit: true})
	require.Len(t, v.Rows, 1, "a submitted form with no agencies keeps only agency-less rows")
}

func TestBuildView_EmptySelection(t *testing.T) {
	v := BuildView(testReport(t), Filters{Explicit: true})

	assert.Empty(t, v.Rows)
	assert.Equal(t, "0", v.KPIs[0].Value)
	assert.Equal(t, core.NoTopClient, v.KPIs[3].Value)
	assert.Empty(t, v.Bars)
	assert.Equal(t, NoBarData, v.BarNotice)
	assert.Empty(t, v.Slices)
	assert.Equal(t, NoDonutData, v.DonutNotice)
}

func TestBuildView_ZeroTotalHidesDonutOnly(t *testing.T) {
	report := core.NewReport("memory:zero", []core.RawRow{{Client: "Acme", Insertions: "0"}}, october2026, core.ParseOptions{})
	v := BuildView(report, Filters{})

	require.Len(t, v.Bars, 1)
	assert.Zero(t, v.Bars[0].Width)
	assert.Empty(t, v.BarNotice)
	assert.Equal(t, NoDonutData, v.DonutNotice)
}

func TestBars_TopFifteenLargestFirst(t *testing.T) {
	var agg core.Aggregate
	for i := 1; i <= 20; i++ {
		agg = append(agg, core.ClientTotal{Client: string(rune('A' + i - 1)), Insertions: int64(i * 10)})
	}
	got := bars(agg)

	require.Len(t, got, barLimit)
	assert.Equal(t, "T", got[0].Client)
	assert.Equal(t, 100, got[0].Width)
	assert.Equal(t, "F", got[14].Client)
	assert.Equal(t, 30, got[14].Width)
}

func TestDonut_Shares(t *testing.T) {
	agg := core.Aggregate{{Client: "Acme", Insertions: 50}, {Client: "Beta", Insertions: 25}, {Client: "Gama", Insertions: 25}, {Client: "Zero", Insertions: 0}}
	slices, style := donut(agg)

	require.Len(t, slices, 3, "zero slices are not drawn")
	assert.True(t, slices[0].Share.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, "50,0%", slices[0].Percent)
	assert.Equal(t, "25,0%", slices[2].Percent)
	assert.True(t, strings.HasPrefix(style, "background: conic-gradient(#636EFA 0.00% 50.00%"))
	assert.True(t, strings.HasSuffix(style, "75.00% 100.00%)"))
}

func TestDonut_TopTenOnly(t *testing.T) {
	var agg core.Aggregate
	for i := 0; i < 12; i++ {
		agg = append(agg, core.ClientTotal{Client: string(rune('A' + i)), Insertions: 1})
	}
	slices, _ := donut(agg)
	require.Len(t, slices, donutLimit)

	sum := decimal.Zero
	for _, s := range slices {
		sum = sum.Add(s.Share)
	}
	assert.True(t, sum.Round(6).Equal(decimal.NewFromInt(1)), "shares are of the displayed slices")
}

func TestFormatMean(t *testing.T) {
	tests := map[string]string{
		"2.5":     "2",
		"3.5":     "4",
		"1234.49": "1.234",
		"0":       "0",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMean(decimal.RequireFromString(in)), in)
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Janeiro", MonthName(time.January))
	assert.Equal(t, "Março", MonthName(time.March))
	assert.Equal(t, "Dezembro", MonthName(time.December))
	assert.Empty(t, MonthName(0))
}

func TestView_JSON(t *testing.T) {
	v := BuildView(testReport(t), Filters{})
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "memory:test", decoded["source"])
	assert.NotContains(t, decoded, "DonutStyle")
	metrics := decoded["metrics"].(map[string]any)
	assert.Equal(t, "Acme", metrics["top_client"])
}
