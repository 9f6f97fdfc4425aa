package ui

import "testing"

func TestLineConstructors(t *testing.T) {
	tests := []struct {
		line     Line
		wantKind LineKind
		wantVT   string
	}{
		{Plain("a"), NormalLine, "a"},
		{Info("a"), InfoLine, "\033[36ma\033[m"},
		{Error("a"), ErrorLine, "\033[31ma\033[m"},
		{Dimmed("a"), DimLine, "\033[2ma\033[m"},
		{Styled("a", FgGreen), NormalLine, "\033[32ma\033[m"},
	}
	for _, test := range tests {
		if test.line.Kind != test.wantKind {
			t.Errorf("%q: kind %v, want %v", test.line, test.line.Kind, test.wantKind)
		}
		if vt := test.line.Text.VTString(); vt != test.wantVT {
			t.Errorf("%q: VTString %q, want %q", test.line, vt, test.wantVT)
		}
	}
	if s := ErrorLine.String(); s != "error" {
		t.Errorf("ErrorLine.String() -> %q", s)
	}
	if got := Lines("a", "b"); len(got) != 2 || got[1].String() != "b" {
		t.Errorf("Lines -> %v", got)
	}
}
