package sorting

import (
	"context"
	"fmt"

	"github.com/san-kum/sortviz/internal/steps"
)

func Merge(ctx context.Context, input []float64, rec Recorder) ([]float64, error) {
	a := steps.Snapshot(input).Clone()
	if err := mergeSort(ctx, rec, a, 0, len(a)-1); err != nil {
		return nil, err
	}
	return a, nil
}

func mergeSort(ctx context.Context, rec Recorder, a steps.Snapshot, l, r int) error {
	if l >= r {
		return nil
	}
	m := (l + r) / 2

	err := emit(ctx, rec, a, steps.Roles{steps.Left: steps.Range(l, m), steps.Right: steps.Range(m+1, r)},
		"Dividing array into two subarrays.",
		fmt.Sprintf("Left subarray from index %d to %d contains %s.", l, m, steps.FormatList(a[l:m+1], ", ")),
		fmt.Sprintf("Right subarray from index %d to %d contains %s.", m+1, r, steps.FormatList(a[m+1:r+1], ", ")),
	)
	if err != nil {
		return err
	}

	if err := mergeSort(ctx, rec, a, l, m); err != nil {
		return err
	}
	if err := mergeSort(ctx, rec, a, m+1, r); err != nil {
		return err
	}
	return merge(ctx, rec, a, l, m, r)
}

func merge(ctx context.Context, rec Recorder, a steps.Snapshot, l, m, r int) error {
	left := a[l : m+1].Clone()
	right := a[m+1 : r+1].Clone()
	i, j, k := 0, 0, l

	place := func(v float64, say string) error {
		check(a, k)
		a[k] = v
		err := emit(ctx, rec, a, steps.Roles{steps.Updated: {k}}, fmt.Sprintf(say, num(v)))
		k++
		return err
	}

	for i < len(left) && j < len(right) {
		var v float64
		if left[i] <= right[j] {
			v = left[i]
			i++
		} else {
			v = right[j]
			j++
		}
		if err := place(v, "Placing number %s in merged position"); err != nil {
			return err
		}
	}
	for ; i < len(left); i++ {
		if err := place(left[i], "Copying number %s from left subarray"); err != nil {
			return err
		}
	}
	for ; j < len(right); j++ {
		if err := place(right[j], "Copying number %s from right subarray"); err != nil {
			return err
		}
	}
	return nil
}
