package dto

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams shapes a list query. SortBy may name several columns separated
// by commas; SortDir applies to each of them.
type QueryParams struct {
	Limit   int
	SortBy  string
	SortDir string
}
