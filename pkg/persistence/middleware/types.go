// Package middleware decorates ledgers with cross-cutting behavior.
package middleware

import "github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"

// Middleware allows wrapping a ledger to add behavior.
type Middleware func(ports.Funds) ports.Funds

// Wrap applies mws to base; the first middleware ends up outermost.
func Wrap(base ports.Funds, mws ...Middleware) ports.Funds {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// result labels a ledger call.
func result(ok bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !ok:
		return "rejected"
	default:
		return "ok"
	}
}
