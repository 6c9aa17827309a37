package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLaunchArgs(t *testing.T) {
	t.Parallel()

	const id = "3f2a9c1e-8b7d-4e21-9a0f-5c6d7e8f9a0b"
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"launchpad"},
			want: []string{"launchpad"},
		},
		{
			name: "app id first token",
			in:   []string{"launchpad", id},
			want: []string{"launchpad", "launch", id},
		},
		{
			name: "app id after value flag",
			in:   []string{"launchpad", "--dir", "./tmp-data", id},
			want: []string{"launchpad", "--dir", "./tmp-data", "launch", id},
		},
		{
			name: "app id after equals flag",
			in:   []string{"launchpad", "--format=text", id},
			want: []string{"launchpad", "--format=text", "launch", id},
		},
		{
			name: "app id after bool flag",
			in:   []string{"launchpad", "--pretty", id},
			want: []string{"launchpad", "--pretty", "launch", id},
		},
		{
			name: "app id after double dash",
			in:   []string{"launchpad", "--root", "/Applications", "--", id},
			want: []string{"launchpad", "--root", "/Applications", "--", "launch", id},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"launchpad", "launch", id},
			want: []string{"launchpad", "launch", id},
		},
		{
			name: "app name not rewritten",
			in:   []string{"launchpad", "Safari"},
			want: []string{"launchpad", "Safari"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLaunchArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLaunchArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
