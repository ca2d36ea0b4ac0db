package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "1s", want: time.Second},
		{input: "90s", want: 90 * time.Second},
		{input: "5m", want: 5 * time.Minute},
		{input: "3min", want: 3 * time.Minute},
		{input: "2h", want: 2 * time.Hour},
		{input: "1day", want: 24 * time.Hour},
		{input: "3days", want: 3 * 24 * time.Hour},
		{input: "1week", want: 7 * 24 * time.Hour},
		{input: "2w", want: 14 * 24 * time.Hour},
		{input: "1week2day3h", want: 9*24*time.Hour + 3*time.Hour},
		{input: "1day 12h", want: 36 * time.Hour},
		{input: "0s", want: 0},
		{input: "", wantErr: true},
		{input: "day", wantErr: true},
		{input: "5", wantErr: true},
		{input: "5fortnights", wantErr: true},
		{input: "-1day", wantErr: true},
		{input: "99999999999999999999s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("ParseDuration(%q) error type = %T, want *ParseError", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "0s"},
		{d: -time.Hour, want: "0s"},
		{d: time.Second, want: "1s"},
		{d: 90 * time.Second, want: "1m30s"},
		{d: 24 * time.Hour, want: "1day"},
		{d: 9*24*time.Hour + 3*time.Hour, want: "1week2day3h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatDurationRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{time.Second, time.Minute, 36 * time.Hour, 10 * 24 * time.Hour} {
		got, err := ParseDuration(FormatDuration(d))
		if err != nil {
			t.Fatalf("ParseDuration(FormatDuration(%v)) error = %v", d, err)
		}
		if got != d {
			t.Errorf("round trip of %v = %v", d, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			input: "2024-01-15 10:30:00",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local),
		},
		{
			input: "2024-01-15",
			want:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		},
		{
			input: "2024-01-15T10:30:00Z",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{input: "tomorrow", wantErr: true},
		{input: "2024-13-40", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("ParseTimestamp(%q) error type = %T, want *ParseError", tt.input, err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
