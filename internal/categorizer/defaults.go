package categorizer

import "fjacquet/ia-financiera/internal/models"

// DefaultCategories returns the built-in vocabulary. Declaration order is the
// tie-break precedence of keyword scoring. Keywords are singular; plurals match
// automatically.
func DefaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{
			Name:     models.CategoryPets,
			Keywords: []string{"mascota", "perro", "gato", "croqueta", "veterinario", "veterinaria", "correa", "arenero"},
			Aliases:  []string{"Mascotas"},
		},
		{
			Name:     models.CategoryFood,
			Keywords: []string{"comida", "restaurante", "café", "taco", "hamburguesa", "pizza", "torta", "desayuno", "cena", "refresco", "antojito"},
			Aliases:  []string{"Alimentación", "Comida"},
		},
		{
			Name:     models.CategoryTransport,
			Keywords: []string{"gasolina", "uber", "taxi", "camión", "pasaje", "auto", "metro", "didi", "autobús", "estacionamiento", "vuelo"},
			Aliases:  []string{"Transporte"},
		},
		{
			Name:     models.CategoryEntertainment,
			Keywords: []string{"cine", "película", "concierto", "juego", "netflix", "spotify", "teatro", "videojuego", "fiesta"},
			Aliases:  []string{"Entretenimiento"},
		},
		{
			Name:     models.CategoryHealth,
			Keywords: []string{"medicina", "medicamento", "doctor", "farmacia", "dentista", "hospital", "consulta"},
			Aliases:  []string{"Salud"},
		},
		{
			Name:     models.CategoryEducation,
			Keywords: []string{"libro", "colegiatura", "curso", "escuela", "universidad", "inscripción", "cuaderno"},
			Aliases:  []string{"Educación"},
		},
		{
			Name:     models.CategoryHome,
			Keywords: []string{"renta", "luz", "agua", "internet", "super", "supermercado", "mueble", "gas", "teléfono", "limpieza"},
			Aliases:  []string{"Hogar"},
		},
		{
			Name:     models.CategorySalary,
			Keywords: []string{"salario", "sueldo", "nómina", "quincena", "aguinaldo"},
			Aliases:  []string{"Salario", "Sueldo"},
		},
		{
			Name:     models.CategorySales,
			Keywords: []string{"venta", "vendí"},
			Aliases:  []string{"Ventas"},
		},
		{
			Name:    models.CategoryOther,
			Aliases: []string{"Otros", "Otro"},
		},
	}
}
