package analysis

import (
	"reflect"
	"testing"
)

func TestLineSetOps(t *testing.T) {
	s := NewLineSet(1, 2, 3, 4, 5)

	t.Run("should intersect", func(t *testing.T) {
		got := s.Intersect(NewLineSet(4, 5, 6, 7)).Sorted()
		want := []int{4, 5}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Intersect() = %v, want %v", got, want)
		}
	})

	t.Run("should union", func(t *testing.T) {
		got := s.Union(NewLineSet(5, 6, 7)).Sorted()
		want := []int{1, 2, 3, 4, 5, 6, 7}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Union() = %v, want %v", got, want)
		}
	})

	t.Run("should union from a nil set", func(t *testing.T) {
		var empty LineSet
		got := empty.Union(NewLineSet(2, 1)).Sorted()
		want := []int{1, 2}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Union() = %v, want %v", got, want)
		}
	})

	t.Run("should diff", func(t *testing.T) {
		got := s.Diff(NewLineSet(2, 4)).Sorted()
		want := []int{1, 3, 5}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %v, want %v", got, want)
		}
	})

	t.Run("should sort ascending with sentinels first", func(t *testing.T) {
		got := NewLineSet(8, -1, 3).Sorted()
		want := []int{-1, 3, 8}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Sorted() = %v, want %v", got, want)
		}
	})

	t.Run("should return non-nil slice for empty set", func(t *testing.T) {
		got := NewLineSet().Sorted()
		if got == nil || len(got) != 0 {
			t.Errorf("Sorted() on empty set = %v, want []", got)
		}
	})

	t.Run("should build from a slice", func(t *testing.T) {
		set := LineSetOf([]int{7, 7, 9})
		if set.Len() != 2 || !set.Contains(7) || !set.Contains(9) {
			t.Errorf("LineSetOf dedup failed: %v", set.Sorted())
		}
	})
}
