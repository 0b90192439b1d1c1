package stock

import (
	"fmt"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
)

// CapacityExceededError indica que la colocación superaría la capacidad
// máxima de la ubicación. Available ya descuenta el stock actual.
type CapacityExceededError struct {
	LocationName string
	Requested    int64
	Available    int64
	Capacity     int64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"se excede la capacidad del estante '%s': intenta añadir %d unidades pero solo hay espacio para %d",
		e.LocationName, e.Requested, e.Available,
	)
}

// InvalidLocationTypeError indica el intento de asignar stock a una bodega
// general en lugar de un estante específico.
type InvalidLocationTypeError struct {
	LocationName string
}

func (e *InvalidLocationTypeError) Error() string {
	return fmt.Sprintf(
		"no se puede asignar stock a la bodega general '%s': seleccione un estante específico",
		e.LocationName,
	)
}

// CategoryMismatchError indica que la categoría del producto no corresponde
// con la categoría exigida por la ubicación. ProductCategory vacío significa
// que el producto no tiene categoría asignada.
type CategoryMismatchError struct {
	LocationName     string
	LocationCategory string
	ProductName      string
	ProductCategory  string
}

func (e *CategoryMismatchError) Error() string {
	if e.ProductCategory == "" {
		return fmt.Sprintf(
			"la ubicación '%s' es solo para productos de categoría '%s', pero el producto '%s' no tiene una categoría asignada",
			e.LocationName, e.LocationCategory, e.ProductName,
		)
	}
	return fmt.Sprintf(
		"no se puede colocar un producto de categoría '%s' en la ubicación '%s' de categoría '%s'",
		e.ProductCategory, e.LocationName, e.LocationCategory,
	)
}

// PlacementInput reúne lo necesario para validar la colocación de stock.
// CurrentAtLocation es el agregado actual de unidades en la ubicación
// (coalesce a 0 si no hay filas); OldQuantity es la cantidad previa del
// stock item cuando se trata de una actualización (0 al crear).
type PlacementInput struct {
	ProductName       string
	ProductCategory   string // nombre de la categoría del producto; vacío = sin categoría
	LocationName      string
	LocationType      string // entity.LocationType*
	LocationCategory  string // nombre de la categoría exigida; vacío = sin restricción
	Capacity          *int64 // nil = sin límite
	CurrentAtLocation int64
	OldQuantity       int64
	Quantity          int64 // cantidad solicitada
}

// ValidatePlacement es la validación pura previa a escribir un stock item.
// Corre las tres verificaciones en orden (capacidad, tipo de ubicación,
// categoría) y devuelve el primer error. No persiste nada: el caller debe
// ejecutarla y escribir dentro de una misma transacción para cerrar la
// ventana entre la lectura del agregado y la escritura.
func ValidatePlacement(in PlacementInput) error {
	if in.Capacity != nil {
		newTotal := in.CurrentAtLocation - in.OldQuantity + in.Quantity
		if newTotal > *in.Capacity {
			available := *in.Capacity - (in.CurrentAtLocation - in.OldQuantity)
			if available < 0 {
				available = 0
			}
			return &CapacityExceededError{
				LocationName: in.LocationName,
				Requested:    in.Quantity,
				Available:    available,
				Capacity:     *in.Capacity,
			}
		}
	}

	if in.LocationType == entity.LocationTypeWarehouse {
		return &InvalidLocationTypeError{LocationName: in.LocationName}
	}

	if in.LocationCategory != "" && in.ProductCategory != in.LocationCategory {
		return &CategoryMismatchError{
			LocationName:     in.LocationName,
			LocationCategory: in.LocationCategory,
			ProductName:      in.ProductName,
			ProductCategory:  in.ProductCategory,
		}
	}

	return nil
}
