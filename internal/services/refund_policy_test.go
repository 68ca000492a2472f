package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmount(t *testing.T) {
	policy := NewRefundPolicy(0.20)

	tests := []struct {
		name   string
		total  float64
		refund float64
	}{
		{"Two seats at 500", 1000, 800},
		{"Single seat", 500, 400},
		{"Rounds to cents", 333.33, 266.66},
		{"Zero amount", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.refund, policy.RefundAmount(tt.total))
		})
	}
}

func TestRefundAmount_CustomRate(t *testing.T) {
	assert.Equal(t, 1000.0, NewRefundPolicy(0).RefundAmount(1000))
	assert.Equal(t, 0.0, NewRefundPolicy(1).RefundAmount(1000))
	assert.Equal(t, 500.0, NewRefundPolicy(0.5).RefundAmount(1000))
}
