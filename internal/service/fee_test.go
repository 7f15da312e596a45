package service_test

import (
	"testing"

	"affiliatex/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateFees(t *testing.T) {
	cases := []struct {
		name           string
		gross          int64
		platform       string
		processing     string
		wantPlatform   int64
		wantProcessing int64
		wantNet        int64
		wantReview     bool
	}{
		{"hundred dollars at 4 and 3 percent", 10000, "0.04", "0.03", 400, 300, 9300, false},
		{"exact cents", 1250, "0.04", "0.03", 50, 38, 1162, false},
		{"fraction rounds up", 1249, "0.04", "0.03", 50, 37, 1162, false},
		{"half cent rounds up", 100, "0.045", "0.03", 5, 3, 92, false},
		{"one cent gross", 1, "0.04", "0.03", 0, 0, 1, false},
		{"zero rates", 5000, "0", "0", 0, 0, 5000, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := service.CalculateFees(tc.gross, rate(tc.platform), rate(tc.processing))
			assert.Equal(t, tc.gross, b.GrossCents)
			assert.Equal(t, tc.wantPlatform, b.PlatformFeeCents)
			assert.Equal(t, tc.wantProcessing, b.ProcessingFeeCents)
			assert.Equal(t, tc.wantNet, b.NetCents)
			assert.Equal(t, tc.wantReview, b.NeedsReview)
			if !b.NeedsReview {
				assert.Equal(t, b.GrossCents, b.PlatformFeeCents+b.ProcessingFeeCents+b.NetCents)
			}
		})
	}
}

func TestCalculateFeesClampsNegativeNet(t *testing.T) {
	b := service.CalculateFees(100, rate("0.60"), rate("0.60"))
	assert.Equal(t, int64(0), b.NetCents)
	assert.True(t, b.NeedsReview)
	assert.Equal(t, int64(60), b.PlatformFeeCents)
	assert.Equal(t, int64(60), b.ProcessingFeeCents)
}
