package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSlashFormat(t *testing.T) {
	svc := New(Options{Format: FormatSlash})

	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty ledger returns seed", nil, "PO-69/001"},
		{"increments last", []string{"PO-69/001"}, "PO-69/002"},
		{"uses last not max", []string{"PO-69/009", "PO-69/003"}, "PO-69/004"},
		{"prefix kept verbatim", []string{"XX-70/041"}, "XX-70/042"},
		{"re-pads to three digits", []string{"PO-69/7"}, "PO-69/008"},
		{"rolls past padding", []string{"PO-69/999"}, "PO-69/1000"},
		{"no delimiter falls back", []string{"PO-69-001"}, "PO-69/001"},
		{"non-numeric suffix falls back", []string{"PO-69/abc"}, "PO-69/001"},
		{"extra delimiter falls back", []string{"PO/69/001"}, "PO-69/001"},
		{"only last row matters", []string{"garbage", "PO-69/005"}, "PO-69/006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Next(tt.ids))
		})
	}
}

func TestNextTaggedFormat(t *testing.T) {
	svc := New(Options{Format: FormatTagged, Tag: "ซจ."})

	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty ledger returns seed", nil, "ซจ.001"},
		{"increments", []string{"ซจ.009"}, "ซจ.010"},
		{"strips year suffix", []string{"ซจ.009/2569"}, "ซจ.010"},
		{"missing tag falls back", []string{"PO-69/001"}, "ซจ.001"},
		{"non-numeric falls back", []string{"ซจ.x1"}, "ซจ.001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Next(tt.ids))
		})
	}
}

func TestNextTaggedWithYear(t *testing.T) {
	svc := New(Options{Format: FormatTagged, Tag: "ซจ.", Year: "2569"})

	assert.Equal(t, "ซจ.001/2569", svc.Next(nil))
	assert.Equal(t, "ซจ.010/2569", svc.Next([]string{"ซจ.009/2569"}))
	assert.Equal(t, "ซจ.005/2569", svc.Next([]string{"ซจ.004"}))
}

func TestNextMaxStrategy(t *testing.T) {
	svc := New(Options{Format: FormatSlash, Strategy: StrategyMax})

	// An edited ledger whose last row is no longer the largest.
	assert.Equal(t, "PO-69/010", svc.Next([]string{"PO-69/009", "PO-69/003"}))
	// Malformed rows are skipped instead of resetting the sequence.
	assert.Equal(t, "PO-69/006", svc.Next([]string{"PO-69/005", "merged cell"}))
	// Nothing parseable still degrades to the seed.
	assert.Equal(t, "PO-69/001", svc.Next([]string{"a", "b"}))
}

func TestSeedOverride(t *testing.T) {
	svc := New(Options{Format: FormatSlash, Seed: "PO-70/001"})
	assert.Equal(t, "PO-70/001", svc.Next(nil))
	assert.Equal(t, "PO-70/001", svc.Next([]string{"broken"}))
	assert.Equal(t, "PO-70/001", svc.Seed())
}
