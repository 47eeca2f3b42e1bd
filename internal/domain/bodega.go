package domain

import "context"

type Bodega struct {
	ID          int
	Name        string
	Description string
	Sucursales  []Sucursal
}

type Sucursal struct {
	ID           int
	Name         string
	IsMain       bool
	Address      string
	Instructions string
	BodegaID     int
	Latitude     float64
	Longitude    float64
}

type BodegaFilters struct {
	Pagination
	Name string
}

type BodegaRepository interface {
	GetAll(ctx context.Context, filters BodegaFilters) ([]Bodega, *Metadata, error)
	GetById(ctx context.Context, id int) (*Bodega, error)
}
