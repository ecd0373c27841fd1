package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantExplicit bool
		wantActive   bool
		wantClients  []string
		wantAgencies []string
	}{
		{name: "no query selects everything", query: ""},
		{name: "filtered marker alone is an empty selection", query: "filtered=1", wantExplicit: true, wantActive: true},
		{name: "repeated values", query: "client=Acme&client=Beta&agency=Norte", wantActive: true, wantClients: []string{"Acme", "Beta"}, wantAgencies: []string{"Norte"}},
		{name: "client only leaves agencies open", query: "client=Acme", wantActive: true, wantClients: []string{"Acme"}},
		{name: "blank values are dropped", query: "client=+&client=%09Acme%01", wantActive: true, wantClients: []string{"Acme"}},
		{name: "only blank values are not a selection", query: "client="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			f := ParseFilters(q)
			assert.Equal(t, tt.wantExplicit, f.Explicit)
			assert.Equal(t, tt.wantActive, f.Active())
			assert.ElementsMatch(t, tt.wantClients, f.Clients.Sorted())
			assert.ElementsMatch(t, tt.wantAgencies, f.Agencies.Sorted())
			if tt.wantAgencies == nil {
				assert.Nil(t, f.Agencies, "an absent dimension stays unset")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Rádio Sul", sanitizeInput("  Rádio\x00 Sul\x07 "))
	assert.Equal(t, "a\tb", sanitizeInput("a\tb"))
}
