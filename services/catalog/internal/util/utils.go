package util

import "strconv"

const PageSize = 100

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page number into offset and limit.
func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = PageSize
	}

	offset = (page - 1) * size
	limit = size
	return offset, limit
}

func ParseID(s string) (uint, bool) {
	v, err := strconv.ParseUint(s, 10, 0)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
