package main

import "testing"

func TestOptsMode(t *testing.T) {
	cases := []struct {
		opts Opts
		want string
	}{
		{Opts{}, "normal"},
		{Opts{Contest: "ahc001"}, "normal"},
		{Opts{Contest: "ahc017"}, "inverted"},
		{Opts{Contest: "ahc017", Mode: "normal"}, "normal"},
		{Opts{Mode: "Inverted"}, "inverted"},
	}
	for _, c := range cases {
		mode, err := c.opts.mode()
		if err != nil {
			t.Fatalf("%+v: %v", c.opts, err)
		}
		if mode.String() != c.want {
			t.Errorf("%+v: mode %s, want %s", c.opts, mode, c.want)
		}
	}

	bad := Opts{Mode: "reverse"}
	if _, err := bad.mode(); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
