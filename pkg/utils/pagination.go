package utils

const MaxPageSize = 100

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// ClampPageSize falls back to def for non-positive sizes and caps at MaxPageSize.
func ClampPageSize(size, def int) int {
	if size < 1 {
		size = def
	}
	if size < 1 {
		size = 10
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
