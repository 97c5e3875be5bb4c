package cmdutils

import "testing"

func TestCell(t *testing.T) {
	if got := Cell("short", 10); got != "short" {
		t.Errorf("Cell(short) = %q", got)
	}
	if got := Cell("科目一练习题目很长", 6); got != "科目一..." {
		t.Errorf("Cell(long) = %q", got)
	}
}

func TestMarkAndRule(t *testing.T) {
	if Mark(true) != "✓" || Mark(false) != "✗" {
		t.Error("unexpected marks")
	}
	if Rule(3) != "---" {
		t.Errorf("Rule(3) = %q", Rule(3))
	}
}
