package bhost

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// HeaderTable is a case-insensitive view over one of the host's header tables. The table of a [Response] redirects
// Content-Type and Content-Encoding to the dedicated native fields; Content-Language is not supported there.
type HeaderTable struct {
	ctx     *RequestContext
	table   func(Request) Table
	special bool
}

func newHeaderTable(ctx *RequestContext, table func(Request) Table, special bool) *HeaderTable {
	return &HeaderTable{ctx: ctx, table: table, special: special}
}

type specialHeader int

const (
	notSpecial specialHeader = iota
	contentType
	contentEncoding
	contentLanguage
)

func (h *HeaderTable) specialOf(name string) specialHeader {
	if !h.special {
		return notSpecial
	}

	switch strings.ToLower(name) {
	case "content-type":
		return contentType
	case "content-encoding":
		return contentEncoding
	case "content-language":
		return contentLanguage
	default:
		return notSpecial
	}
}

func unsupported(name string) error {
	return WithKind(errors.Newf("no support for %s", name), ErrUnsupportedHeader)
}

// Lookup returns the value stored under name and whether it is present. A special field that was cleared to the
// empty string counts as absent.
func (h *HeaderTable) Lookup(name string) (string, bool, error) {
	native, err := h.ctx.Native()
	if err != nil {
		return "", false, err
	}

	var v string
	var ok bool
	switch h.specialOf(name) {
	case contentType:
		v, ok = native.ContentType()
	case contentEncoding:
		v, ok = native.ContentEncoding()
	case contentLanguage:
		return "", false, unsupported(name)
	default:
		v, ok = h.table(native).Get(name)
		return v, ok, nil
	}

	return v, ok && v != "", nil
}

// Get returns the value stored under name, or the empty string.
func (h *HeaderTable) Get(name string) (string, error) {
	v, _, err := h.Lookup(name)
	return v, err
}

// Set replaces all values stored under name.
func (h *HeaderTable) Set(name, value string) error {
	native, err := h.ctx.Native()
	if err != nil {
		return err
	}

	switch h.specialOf(name) {
	case contentType:
		native.SetContentType(value)
	case contentEncoding:
		native.SetContentEncoding(value)
	case contentLanguage:
		return unsupported(name)
	default:
		h.table(native).Set(name, value)
	}

	return nil
}

// Add appends a value under name. The single-valued special fields are replaced instead.
func (h *HeaderTable) Add(name, value string) error {
	if h.specialOf(name) != notSpecial {
		return h.Set(name, value)
	}

	native, err := h.ctx.Native()
	if err != nil {
		return err
	}

	h.table(native).Add(name, value)
	return nil
}

// Remove deletes name. Special fields are cleared to the empty string, following the host convention.
func (h *HeaderTable) Remove(name string) error {
	native, err := h.ctx.Native()
	if err != nil {
		return err
	}

	switch h.specialOf(name) {
	case contentType:
		native.SetContentType("")
	case contentEncoding:
		native.SetContentEncoding("")
	case contentLanguage:
		return unsupported(name)
	default:
		h.table(native).Unset(name)
	}

	return nil
}

// All returns a snapshot of the whole collection with the special fields merged in.
func (h *HeaderTable) All() (http.Header, error) {
	native, err := h.ctx.Native()
	if err != nil {
		return nil, err
	}

	all := http.Header{}
	h.table(native).Do(func(name, value string) bool {
		all.Add(name, value)
		return true
	})

	if !h.special {
		return all, nil
	}

	if v, ok := native.ContentType(); ok && v != "" {
		all.Set("Content-Type", v)
	}
	if v, ok := native.ContentEncoding(); ok && v != "" {
		all.Set("Content-Encoding", v)
	}

	return all, nil
}
