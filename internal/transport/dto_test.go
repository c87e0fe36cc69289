package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRequest_Quantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "absent uses default", body: `{"productId":"p"}`, want: 1},
		{name: "number", body: `{"quantity":3}`, want: 3},
		{name: "string from select", body: `{"quantity":"7"}`, want: 7},
		{name: "whole float", body: `{"quantity":2.0}`, want: 2},
		{name: "negative passes decoding", body: `{"quantity":-4}`, want: -4},
		{name: "fraction decodes to zero", body: `{"quantity":1.5}`, want: 0},
		{name: "out of range decodes to zero", body: `{"quantity":1e12}`, want: 0},
		{name: "word", body: `{"quantity":"many"}`, wantErr: true},
		{name: "bool", body: `{"quantity":true}`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req CartRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.QuantityOr(1))
		})
	}
}

func TestReviewRequest_Stars(t *testing.T) {
	t.Parallel()

	var req ReviewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"stars":"4.5","description":"ok"}`), &req))
	require.NotNil(t, req.Stars)
	assert.Equal(t, 4.5, float64(*req.Stars))

	req = ReviewRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"stars":3}`), &req))
	require.NotNil(t, req.Stars)
	assert.Equal(t, 3.0, float64(*req.Stars))

	req = ReviewRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"description":"ok"}`), &req))
	assert.Nil(t, req.Stars)
	require.NoError(t, json.Unmarshal([]byte(`{"stars":null}`), &req))
	assert.Nil(t, req.Stars)

	assert.Error(t, json.Unmarshal([]byte(`{"stars":"NaN"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"stars":"five"}`), &req))
}
