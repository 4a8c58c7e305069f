package sync

import (
	"strconv"

	"kafka-governance/internal/model"
)

// PageSize is the fixed window of every paginated view
const PageSize = 21

// NextPageToken requests the page after currentPage
const NextPageToken = ">"

// Paginate windows an already-materialized sequence. pageNo is an explicit
// page number or NextPageToken relative to currentPage; anything out of
// range clamps to the nearest valid page. The input order is preserved.
func Paginate[T any](items []T, pageNo, currentPage string) ([]T, model.PagingMeta) {
	totalPages := (len(items) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}

	page := resolvePage(pageNo, currentPage)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	allPageNos := make([]int, totalPages)
	for i := range allPageNos {
		allPageNos[i] = i + 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], model.PagingMeta{
		TotalPages:  totalPages,
		AllPageNos:  allPageNos,
		CurrentPage: page,
	}
}

func resolvePage(pageNo, currentPage string) int {
	if pageNo == NextPageToken {
		current, err := strconv.Atoi(currentPage)
		if err != nil {
			return 1
		}
		return current + 1
	}
	page, err := strconv.Atoi(pageNo)
	if err != nil {
		return 1
	}
	return page
}
