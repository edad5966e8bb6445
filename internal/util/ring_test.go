package util

import (
  "testing"

  "github.com/google/go-cmp/cmp"
)

func TestRingFIFO(t *testing.T) {
  r := NewRing[int](3)
  for i := 1; i <= 3; i++ {
    if !r.Add(i) {
      t.Fatalf("Add(%d) = false on non-full ring", i)
    }
  }
  if r.Add(4) {
    t.Fatal("Add on full ring = true")
  }
  if !r.Full() {
    t.Fatal("Full() = false at capacity")
  }

  v, ok := r.Take()
  if !ok || v != 1 {
    t.Fatalf("Take() = %d, %v; want 1, true", v, ok)
  }
  r.Add(4)

  var got []int
  for !r.Empty() {
    v, _ := r.Take()
    got = append(got, v)
  }
  if diff := cmp.Diff([]int{2, 3, 4}, got); diff != "" {
    t.Errorf("drained values mismatch (-want +got):\n%s", diff)
  }
}

func TestRingWrapAround(t *testing.T) {
  r := NewRing[string](2)
  var got []string
  for _, s := range []string{"a", "b", "c", "d", "e"} {
    if r.Full() {
      v, _ := r.Take()
      got = append(got, v)
    }
    r.Add(s)
  }
  for !r.Empty() {
    v, _ := r.Take()
    got = append(got, v)
  }
  if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, got); diff != "" {
    t.Errorf("order mismatch (-want +got):\n%s", diff)
  }
  if _, ok := r.Take(); ok {
    t.Error("Take() on empty ring = true")
  }
}

func TestRingZeroSize(t *testing.T) {
  r := NewRing[int](0)
  if r.Add(1) {
    t.Error("Add on zero-size ring = true")
  }
  if r.Len() != 0 || r.Cap() != 0 {
    t.Errorf("Len, Cap = %d, %d; want 0, 0", r.Len(), r.Cap())
  }
}
