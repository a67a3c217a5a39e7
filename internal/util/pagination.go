package util

// Normalize clamps page/limit to sane values: page ≥ 1, limit in (0, 100]
// with a default of 10.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
