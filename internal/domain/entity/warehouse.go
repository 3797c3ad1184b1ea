package entity

import "time"

// Warehouse representa una bodega donde se agrupan ubicaciones.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location representa una ubicación física dentro de exactamente una bodega.
// Code es único dentro de la bodega.
type Location struct {
	ID          string
	WarehouseID string
	Code        string
	Name        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
