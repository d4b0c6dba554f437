package tablestore

import (
	"context"
	"iter"
)

// QueryAll lazily maps every entity yielded by pager. One page is requested per
// advance and fully mapped before the next one is fetched; breaking out of the
// loop stops paging. A store failure is yielded once as (zero, err) and ends the
// sequence.
func QueryAll[T, M any](ctx context.Context, pager Pager[T], mapFn func(T) M) iter.Seq2[M, error] {
	return func(yield func(M, error) bool) {
		var zero M

		for pager.More() {
			if err := ctx.Err(); err != nil {
				yield(zero, err)

				return
			}

			page, err := pager.NextPage(ctx)
			if err != nil {
				yield(zero, err)

				return
			}

			for _, value := range page.Values {
				if !yield(mapFn(value), nil) {
					return
				}
			}
		}
	}
}

// Collect drains seq into a slice. The slice is never nil.
func Collect[M any](seq iter.Seq2[M, error]) ([]M, error) {
	models := []M{}

	for model, err := range seq {
		if err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	return models, nil
}

// First returns the first element of seq, reporting whether one existed.
func First[M any](seq iter.Seq2[M, error]) (M, bool, error) {
	var zero M

	for model, err := range seq {
		if err != nil {
			return zero, false, err
		}

		return model, true, nil
	}

	return zero, false, nil
}
