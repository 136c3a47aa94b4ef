package model

import "testing"

func TestNewBox_OrdersCorners(t *testing.T) {
	b := NewBox(15, 20, 5, 5)
	want := Box{X1: 5, Y1: 5, X2: 15, Y2: 20}
	if b != want {
		t.Errorf("NewBox = %+v, want %+v", b, want)
	}
}

func TestNewBox_ClampsNegative(t *testing.T) {
	b := NewBox(-4, -2, 10, 8)
	if b.X1 != 0 || b.Y1 != 0 {
		t.Errorf("NewBox(-4,-2,...) = %+v, want X1=0 Y1=0", b)
	}
	if b.X2 != 10 || b.Y2 != 8 {
		t.Errorf("NewBox(...,10,8) = %+v, want X2=10 Y2=8", b)
	}
}

func TestBox_Center(t *testing.T) {
	tests := []struct {
		box    Box
		cx, cy int
	}{
		{Box{0, 0, 20, 10}, 10, 5},
		{Box{0, 0, 40, 20}, 20, 10},
		{Box{0, 0, 30, 15}, 15, 7},
		{Box{3, 3, 4, 4}, 3, 3},
	}
	for _, tt := range tests {
		cx, cy := tt.box.Center()
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("%v.Center() = (%d,%d), want (%d,%d)", tt.box, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestBox_String(t *testing.T) {
	if got := (Box{1, 2, 3, 4}).String(); got != "(1,2,3,4)" {
		t.Errorf("String() = %q", got)
	}
}
