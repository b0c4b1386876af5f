package main

import "testing"

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{nil, 1, false},
		{[]string{"3"}, 3, false},
		{[]string{"0"}, 0, true},
		{[]string{"-2"}, 0, true},
		{[]string{"all"}, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		got, err := parseSteps(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSteps(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSteps(%v) = %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	if err := run("postgres://unused", []string{"sideways"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
