package model

import (
	"reflect"
	"testing"
)

func TestStepQueue_FIFO(t *testing.T) {
	q := NewStepQueue([]string{"はじめる", "続ける", "OK"})
	for _, want := range []string{"はじめる", "続ける", "OK"} {
		cur, ok := q.Current()
		if !ok || cur != want {
			t.Fatalf("Current() = %q,%v want %q", cur, ok, want)
		}
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %q,%v want %q", got, ok, want)
		}
	}
	if !q.Empty() {
		t.Errorf("queue should be empty, has %d", q.Len())
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should report ok=false")
	}
}

func TestStepQueue_CopiesInput(t *testing.T) {
	src := []string{"a", "b"}
	q := NewStepQueue(src)
	src[0] = "changed"
	if cur, _ := q.Current(); cur != "a" {
		t.Errorf("queue aliased its input: Current() = %q", cur)
	}
	rem := q.Remaining()
	rem[1] = "changed"
	if !reflect.DeepEqual(q.Remaining(), []string{"a", "b"}) {
		t.Errorf("Remaining() aliased internal state: %v", q.Remaining())
	}
}

func TestStepQueue_Empty(t *testing.T) {
	q := NewStepQueue(nil)
	if !q.Empty() || q.Len() != 0 {
		t.Errorf("NewStepQueue(nil) should be empty")
	}
	if _, ok := q.Current(); ok {
		t.Error("Current on empty queue should report ok=false")
	}
}
