package entity

import "time"

// Category familia de piezas (Anillos, Pendientes...).
type Category struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	CreatedBy   string
}

// Subcategory tipo de pieza dentro de una categoría. El nombre es único dentro de la categoría.
type Subcategory struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	CreatedBy   string
}

// Customer cliente de tienda; las reservas lo referencian.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	DNI       string
	Phone     string
	Email     string
	Address   string
	Tags      []string // VIP, Recurrente...
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// FullName nombre y apellidos.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Supplier proveedor (taller externo, fabricante) de las piezas.
type Supplier struct {
	ID            string
	Name          string
	TaxID         string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Website       string
	Notes         string
	IsActive      bool
	CreatedAt     time.Time
	CreatedBy     string
}

// DefaultCategories categorías base con IDs fijos.
func DefaultCategories(now time.Time) []*Category {
	base := []struct{ id, name, desc string }{
		{"cat_anillos", "Anillos", "Piezas destinadas a ser llevadas en el dedo."},
		{"cat_pendientes", "Pendientes", "Piezas destinadas a la oreja."},
		{"cat_collares", "Collares", "Piezas completas destinadas al cuello."},
		{"cat_colgantes", "Colgantes", "Piezas colgables independientes."},
		{"cat_cadenas", "Cadenas", "Elementos lineales de cuello."},
		{"cat_pulseras", "Pulseras", "Piezas destinadas a la muñeca (flexibles)."},
		{"cat_brazaletes", "Brazaletes", "Piezas rígidas o semi-rígidas de muñeca."},
		{"cat_tobilleras", "Tobilleras", "Piezas destinadas al tobillo."},
		{"cat_gemelos", "Gemelos", "Piezas destinadas a camisas."},
		{"cat_broches", "Broches", "Piezas decorativas o funcionales para prendas."},
		{"cat_relojes", "Relojes", "Instrumentos de medida del tiempo."},
		{"cat_conjuntos", "Conjuntos / Sets", "Agrupación lógica de piezas."},
		{"cat_otros", "Otros / Especiales", "Uso controlado y excepcional."},
	}
	out := make([]*Category, 0, len(base))
	for _, b := range base {
		out = append(out, &Category{
			ID: b.id, Name: b.name, Description: b.desc,
			IsActive: true, CreatedAt: now, CreatedBy: "system",
		})
	}
	return out
}
