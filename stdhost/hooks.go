package stdhost

import (
	"cmp"
	"slices"

	"github.com/advdv/bhost"
)

type hook[F any] struct {
	fn    F
	order bhost.HookOrder
}

// hooks is a chain of hooks of one kind, sorted by order and stable in registration order.
type hooks[F any] []hook[F]

func (hs hooks[F]) insert(fn F, order bhost.HookOrder) hooks[F] {
	hs = append(hs, hook[F]{fn, order})
	slices.SortStableFunc(hs, func(a, b hook[F]) int { return cmp.Compare(a.order, b.order) })

	return hs
}
