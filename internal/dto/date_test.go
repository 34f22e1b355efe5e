package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    string
	}{
		{name: "Valid date", input: `"1990-12-30"`, want: "1990-12-30"},
		{name: "Leap day", input: `"2024-02-29"`, want: "2024-02-29"},
		{name: "RFC3339 rejected", input: `"1990-12-30T00:00:00Z"`, wantErr: true},
		{name: "Wrong order", input: `"30-12-1990"`, wantErr: true},
		{name: "Not a date", input: `"tomorrow"`, wantErr: true},
		{name: "Invalid leap day", input: `"2023-02-29"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if got := d.Format("2006-01-02"); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDateMarshal(t *testing.T) {
	d := NewDate(1990, time.December, 30)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Failed to marshal date: %v", err)
	}
	if string(data) != `"1990-12-30"` {
		t.Errorf("Expected \"1990-12-30\", got %s", string(data))
	}
}

func TestDateInStruct(t *testing.T) {
	var req CreateContactRequest
	payload := `{"name":"Ada","birth_date":"1990-12-30"}`

	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}
	if req.BirthDate.Format("2006-01-02") != "1990-12-30" {
		t.Errorf("Expected birth date 1990-12-30, got %s", req.BirthDate.Format("2006-01-02"))
	}
}
