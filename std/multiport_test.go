package std

import (
	"strings"
	"testing"
)

func TestParseMultiPortSingle(t *testing.T) {
	mp, err := ParseMultiPort("0.0.0.0:20000")
	if err != nil {
		t.Fatalf("ParseMultiPort returned error: %v", err)
	}
	if mp.Host != "0.0.0.0" || mp.MinPort != 20000 || mp.MaxPort != 20000 {
		t.Fatalf("unexpected result: %+v", mp)
	}
	if got := mp.PickAddr(); got != "0.0.0.0:20000" {
		t.Fatalf("PickAddr = %q", got)
	}
}

func TestParseMultiPortRange(t *testing.T) {
	mp, err := ParseMultiPort("example.com:20000-21000")
	if err != nil {
		t.Fatalf("ParseMultiPort returned error: %v", err)
	}
	if mp.Host != "example.com" || mp.MinPort != 20000 || mp.MaxPort != 21000 {
		t.Fatalf("unexpected result: %+v", mp)
	}
	for i := 0; i < 100; i++ {
		addr := mp.PickAddr()
		if !strings.HasPrefix(addr, "example.com:") {
			t.Fatalf("PickAddr = %q", addr)
		}
	}
}

func TestParseMultiPortInvalid(t *testing.T) {
	cases := []string{
		"noport",
		"host:0",
		"host:70000",
		"host:2000-1000",
	}
	for _, c := range cases {
		if _, err := ParseMultiPort(c); err == nil {
			t.Fatalf("ParseMultiPort(%q) accepted", c)
		}
	}
}
