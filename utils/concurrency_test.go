package utils

import (
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
)

func TestErrGroup(t *testing.T) {
	group := ErrGroup[int](2)
	for i := 1; i <= 5; i++ {
		i := i
		group.Go(func() (int, error) {
			return i * i, nil
		})
	}

	results, err := group.WaitAndCollect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	sort.Ints(results)
	expected := []int{1, 4, 9, 16, 25}
	for i, v := range expected {
		if results[i] != v {
			t.Errorf("expected %v, got %v", expected, results)
			break
		}
	}
}

func TestErrGroupReturnsFirstError(t *testing.T) {
	group := ErrGroup[int](0)
	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		i := i
		group.Go(func() (int, error) {
			ran.Add(1)
			if i == 1 {
				return 0, fmt.Errorf("task %d failed", i)
			}
			return i, nil
		})
	}

	_, err := group.WaitAndCollect()
	if err == nil {
		t.Fatal("expected an error")
	}
	if ran.Load() != 3 {
		t.Errorf("expected all tasks to run, got %d", ran.Load())
	}
}
