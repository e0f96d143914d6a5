// Package paging holds the offset pagination arithmetic used by list queries.
package paging

// DefaultSize is used when a request carries no page size.
const DefaultSize = 25

// MaxSize caps a single page.
const MaxSize = 100

// Request is a 1-based page request. Zero values mean "first page, default size".
type Request struct {
	Page int
	Size int
}

// Normalize clamps the request into a valid range using defaultSize
// when no size was given.
func (r Request) Normalize(defaultSize int) Request {
	if defaultSize < 1 || defaultSize > MaxSize {
		defaultSize = DefaultSize
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Size < 1 {
		r.Size = defaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

// Offset returns the SQL OFFSET for a normalized request.
func (r Request) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Size
}

// Info describes the page a list query returned.
type Info struct {
	Page       int
	Size       int
	Total      int
	TotalPages int
}

// NewInfo builds page metadata for a normalized request and a total row count.
func NewInfo(r Request, total int) Info {
	pages := 0
	if r.Size > 0 {
		pages = (total + r.Size - 1) / r.Size
	}
	return Info{Page: r.Page, Size: r.Size, Total: total, TotalPages: pages}
}

// HasNext reports whether a later page exists.
func (i Info) HasNext() bool { return i.Page < i.TotalPages }

// HasPrev reports whether an earlier page exists.
func (i Info) HasPrev() bool { return i.Page > 1 }
