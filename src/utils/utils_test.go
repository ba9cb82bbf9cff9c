// backend/src/utils/utils_test.go
package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestRoundFloat(t *testing.T) {
	cases := []struct {
		val       float64
		precision uint
		want      float64
	}{
		{16.129032258064516, 2, 16.13},
		{46.2001, 2, 46.2},
		{0, 2, 0},
		{-1.005, 1, -1.0},
	}
	for _, tc := range cases {
		if got := RoundFloat(tc.val, tc.precision); got != tc.want {
			t.Errorf("RoundFloat(%v, %d) = %v, want %v", tc.val, tc.precision, got, tc.want)
		}
	}
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "something broke", 418)

	if rec.Code != 418 {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body JSONErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Error != "something broke" {
		t.Errorf("error message = %q", body.Error)
	}
}
