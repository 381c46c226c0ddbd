package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare ten digits", input: "5551234567", want: "+15551234567"},
		{name: "formatted US", input: "(555) 123-4567", want: "+15551234567"},
		{name: "eleven digits with country code", input: "15551234567", want: "+15551234567"},
		{name: "already E.164", input: "+15551234567", want: "+15551234567"},
		{name: "international", input: "+44 20 7946 0958", want: "+442079460958"},
		{name: "dots and spaces", input: "555.123.4567", want: "+15551234567"},
		{name: "too short", input: "12345", wantErr: true},
		{name: "too long with plus", input: "+1234567890123456", wantErr: true},
		{name: "letters", input: "555-CALL-NOW", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+15551234567"))
	assert.True(t, IsValidPhone("555 123 4567"))
	assert.False(t, IsValidPhone("not-a-phone"))
	assert.False(t, IsValidPhone(""))
}
