package remote

import (
	"fmt"
	"strings"

	"fjacquet/ia-financiera/internal/models"
)

// BuildClassificationPrompt asks the model for a JSON record describing the
// transaction in message, restricted to the given category labels.
func BuildClassificationPrompt(message string, categories []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analiza este mensaje sobre una transacción personal: %q.\n", message)
	b.WriteString("Devuelve SOLO un objeto JSON, sin texto adicional, con estas claves:\n")
	fmt.Fprintf(&b, "  \"type\": %q si es dinero que entra o %q si es dinero que sale,\n", models.TypeIncome, models.TypeExpense)
	fmt.Fprintf(&b, "  \"category\": exactamente una de: %s,\n", strings.Join(categories, ", "))
	b.WriteString("  \"amount\": el monto como número, sin símbolos ni separadores de miles,\n")
	b.WriteString("  \"descripcion\": una descripción breve de la transacción.\n")
	fmt.Fprintf(&b, "Si ninguna categoría aplica usa %q.\n", models.CategoryOther)

	return b.String()
}
