package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name               string
		in                 PageRequest
		wantLimit, wantOff int
	}{
		{"vacía", PageRequest{}, DefaultPageSize, 0},
		{"tope", PageRequest{Limit: 500, Offset: 10}, MaxPageSize, 10},
		{"offset negativo", PageRequest{Limit: 5, Offset: -3}, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOff, p.Offset)
		})
	}
}

func TestNewPageResponse_HasMore(t *testing.T) {
	assert.True(t, NewPageResponse(20, 0, 21).HasMore)
	assert.False(t, NewPageResponse(20, 20, 40).HasMore)
}
