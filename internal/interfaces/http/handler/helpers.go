package handler

import "github.com/ecofoods/backend/internal/interfaces/http/dto"

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// listMeta builds pagination meta using the page size the services applied
func listMeta(total int64, page, pageSize int) dto.ListMeta {
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return dto.NewListMeta(total, page, pageSize)
}
