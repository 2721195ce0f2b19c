package categorizer

import (
	"testing"

	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/textutils"

	"github.com/stretchr/testify/assert"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		message  string
		expected models.TransactionType
	}{
		{"Recibí mi salario", models.TypeIncome},
		{"me depositaron 500", models.TypeIncome},
		{"me pagaron 300 por el diseño", models.TypeIncome},
		{"gané 200 en la rifa", models.TypeIncome},
		{"cobré la factura", models.TypeIncome},
		{"recibí un reembolso de 200", models.TypeIncome},
		{"gasté 50 en tacos", models.TypeExpense},
		{"pagué la renta", models.TypeExpense},
		{"invertí 500 en cetes", models.TypeExpense},
		{"compré una ventana", models.TypeExpense},
		{"hola 100", models.TypeExpense},
		{"", models.TypeExpense},
		{"pagué la venta del coche", models.TypeIncome},
		{"pagué la nómina de mis empleados 5000", models.TypeExpense},
		{"pagué el sueldo de la niñera 800", models.TypeExpense},
		{"pagué el depósito del departamento 3000", models.TypeExpense},
		{"salario 9000", models.TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyType(textutils.Normalize(tt.message)))
		})
	}
}

func TestHasExpenseCue(t *testing.T) {
	assert.True(t, HasExpenseCue(textutils.Normalize("Gasté 20")))
	assert.True(t, HasExpenseCue(textutils.Normalize("invertimos 20")))
	assert.False(t, HasExpenseCue(textutils.Normalize("pagaron 20")))
	assert.False(t, HasExpenseCue(textutils.Normalize("tacos 20")))
}
