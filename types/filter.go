package types

const (
	defaultLimit = 50
	MaximumLimit = 100
)

type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (f *Pagination) Sanitize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	} else if f.Limit > MaximumLimit {
		f.Limit = MaximumLimit
	}
}

// Window applies the pagination to a slice length, returning [start, end).
func (f *Pagination) Window(n int) (int, int) {
	f.Sanitize()
	start := f.Skip
	if start > n {
		start = n
	}
	end := start + f.Limit
	if end > n {
		end = n
	}
	return start, end
}
