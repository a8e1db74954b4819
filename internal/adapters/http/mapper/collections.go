package mapper

import "github.com/jsamuelsen/bookstore-service/internal/domain"

// TranslateSlice applies translate to each element in order and stops at the
// first failure, returning that error unchanged. A nil input yields a nil
// result so optional lists stay absent.
func TranslateSlice[S, D any](items []S, translate func(S) (D, error)) ([]D, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]D, 0, len(items))

	for _, item := range items {
		translated, err := translate(item)
		if err != nil {
			return nil, err
		}

		result = append(result, translated)
	}

	return result, nil
}

// projectSlice applies an infallible projection. The result is never nil so
// lists render as [] rather than null.
func projectSlice[S, D any](items []S, project func(*S) D) []D {
	result := make([]D, 0, len(items))

	for i := range items {
		result = append(result, project(&items[i]))
	}

	return result
}

func parseIDList(raw []string) ([]domain.ID, error) {
	return TranslateSlice(raw, domain.ParseID)
}

// optional lifts a patch pointer into an Optional; nil means absent.
func optional[T any](p *T) domain.Optional[T] {
	if p == nil {
		return domain.None[T]()
	}

	return domain.Some(*p)
}
