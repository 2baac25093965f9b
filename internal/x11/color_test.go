package x11

import "testing"

func TestParsePixel(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"#3498db", 0x3498db},
		{"#fff", 0xffffff},
		{"rgb(255, 0, 0)", 0xff0000},
		{"rgba(0, 128, 0, 1)", 0x008000},
		{" rgba(0,0,255,0) ", 0xffffff},
	}
	for _, tc := range cases {
		got, err := ParsePixel(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %06x, got %06x", tc.in, tc.want, got)
		}
	}
}

func TestParsePixel_TranslucentFlattened(t *testing.T) {
	got, err := ParsePixel("rgba(0, 0, 0, 0.1)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for shift := 0; shift <= 16; shift += 8 {
		ch := (got >> shift) & 0xff
		if ch < 0xe5 || ch > 0xe6 {
			t.Fatalf("expected a light gray, got %06x", got)
		}
	}
}

func TestParsePixel_Invalid(t *testing.T) {
	for _, in := range []string{"", "red", "#12", "rgb(1,2)", "rgb(300,0,0)", "rgba(0,0,0,2)", "rgba(a,0,0,1)"} {
		if _, err := ParsePixel(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
