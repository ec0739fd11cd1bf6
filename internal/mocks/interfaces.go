package mocks

import (
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/dujoseaugusto/land-data-scraper/internal/scraper"
)

// Compile-time checks that the mocks satisfy the interfaces they stand in for.
var (
	_ repository.PropertyRepository = (*MockPropertyRepository)(nil)
	_ repository.RunRepository      = (*MockRunRepository)(nil)
	_ scraper.Adapter               = (*MockAdapter)(nil)
)
