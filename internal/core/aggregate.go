package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NoTopClient is shown as the top client when nothing passes the filters.
const NoTopClient = "Nenhum"

// ClientTotal is the insertion total of one client.
type ClientTotal struct {
	Client     string
	Insertions int64
}

// Aggregate holds per-client totals ordered by client name. Clients without
// rows in the aggregated set are absent.
type Aggregate []ClientTotal

// Metrics are the KPI values computed from an aggregate.
type Metrics struct {
	Mean      decimal.Decimal `json:"mean"` // mean insertions per client
	Total     int64           `json:"total"`
	Clients   int             `json:"clients"`
	TopClient string          `json:"top_client"`
}

// AggregateByClient sums insertions grouped by client.
func AggregateByClient(rows []ContractRow) Aggregate {
	sums := make(map[string]int64)
	for _, r := range rows {
		sums[r.Client] += r.Insertions
	}
	out := make(Aggregate, 0, len(sums))
	for c, n := range sums {
		out = append(out, ClientTotal{Client: c, Insertions: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Totals returns the aggregate as a client -> insertions mapping.
func (a Aggregate) Totals() map[string]int64 {
	m := make(map[string]int64, len(a))
	for _, ct := range a {
		m[ct.Client] = ct.Insertions
	}
	return m
}

// Sum returns the total insertions across all clients.
func (a Aggregate) Sum() int64 {
	var total int64
	for _, ct := range a {
		total += ct.Insertions
	}
	return total
}

// ComputeMetrics derives the KPI values. An empty aggregate yields zeros and
// NoTopClient. On a tie for the top client the first in aggregate order wins;
// callers should not rely on that.
func ComputeMetrics(a Aggregate) Metrics {
	if len(a) == 0 {
		return Metrics{Mean: decimal.Zero, TopClient: NoTopClient}
	}
	m := Metrics{Total: a.Sum(), Clients: len(a)}
	m.Mean = decimal.NewFromInt(m.Total).Div(decimal.NewFromInt(int64(m.Clients)))

	top := a[0]
	for _, ct := range a[1:] {
		if ct.Insertions > top.Insertions {
			top = ct
		}
	}
	m.TopClient = top.Client
	return m
}

// TopN returns the n clients with the largest totals, largest first. Ties
// keep aggregate order.
func TopN(a Aggregate, n int) Aggregate {
	out := make(Aggregate, len(a))
	copy(out, a)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Insertions > out[j].Insertions })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
