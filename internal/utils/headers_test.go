package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing header", header: "", wantErr: ErrMissingAuthzHeader},
		{name: "no scheme", header: "abc", wantErr: ErrInvalidAuthzHeader},
		{name: "empty token", header: "Bearer    ", wantErr: ErrInvalidAuthzHeader},
		{name: "extra spaces before token", header: "Bearer   abc", want: "abc"},
		{name: "token with space", header: "Bearer abc def", wantErr: ErrInvalidAuthzHeader},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrUnsupportedAuthzScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/repos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := ExtractAuthorizationHeader(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
