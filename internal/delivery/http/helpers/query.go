package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"announcebot/internal/extract"
)

// ParseDateKey reads a YYYYMMDD query parameter. A missing parameter returns
// 0 and no error; a malformed or impossible date is an error.
func ParseDateKey(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || len(s) != 8 {
		return 0, fmt.Errorf("%s must be YYYYMMDD", name)
	}
	_, m, d := extract.SplitDateKey(v)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, fmt.Errorf("%s must be YYYYMMDD", name)
	}
	return v, nil
}
