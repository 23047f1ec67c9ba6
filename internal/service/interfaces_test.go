package service_test

import (
	"github.com/Veraticus/spice-etl/internal/service"
	"github.com/Veraticus/spice-etl/internal/storage"
)

var _ service.Warehouse = (*storage.Warehouse)(nil)
