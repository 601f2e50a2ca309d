package recipients_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/recipients"
)

func testAddresses() recipients.Addresses {
	return recipients.Addresses{
		Vehiculos:   "autos@seguros.test",
		Salud:       "salud@seguros.test",
		Vida:        "vida@seguros.test",
		Mascotas:    "mascotas@seguros.test",
		Hogar:       "hogar@seguros.test",
		Default:     "info@seguros.test",
		Empresarial: "empresas@seguros.test",
		CC:          "gerencia@seguros.test",
	}
}

func TestResolve_PersonalTable(t *testing.T) {
	r := recipients.New(testAddresses())
	tests := []struct {
		q    domain.QuoteType
		want string
	}{
		{domain.QuoteVehiculos, "autos@seguros.test"},
		{domain.QuoteSalud, "salud@seguros.test"},
		{domain.QuoteVida, "vida@seguros.test"},
		{domain.QuoteMascotas, "mascotas@seguros.test"},
		{domain.QuoteHogar, "hogar@seguros.test"},
		{domain.QuoteAsistenciaViajes, "info@seguros.test"},
		{"desconocido", "info@seguros.test"},
	}
	for _, tt := range tests {
		t.Run(string(tt.q), func(t *testing.T) {
			set := r.Resolve(tt.q, false)
			assert.Equal(t, []string{tt.want}, set.To)
			assert.Equal(t, []string{"gerencia@seguros.test"}, set.CC)
		})
	}
}

func TestResolve_BusinessIgnoresPersonalTable(t *testing.T) {
	r := recipients.New(testAddresses())
	for _, q := range append(domain.AllQuoteTypes, "otro") {
		set := r.Resolve(q, true)
		assert.Equal(t, []string{"empresas@seguros.test"}, set.To, q)
	}
}

func TestResolve_CCDroppedWhenEqualToRecipient(t *testing.T) {
	a := testAddresses()
	a.CC = "SALUD@seguros.test"
	r := recipients.New(a)

	set := r.Resolve(domain.QuoteSalud, false)
	assert.Equal(t, []string{"salud@seguros.test"}, set.To)
	assert.Empty(t, set.CC)

	set = r.Resolve(domain.QuoteVida, false)
	assert.Equal(t, []string{"SALUD@seguros.test"}, set.CC)
}

func TestResolve_EmptyBusinessFallsBackToDefault(t *testing.T) {
	a := testAddresses()
	a.Empresarial = ""
	r := recipients.New(a)
	assert.Equal(t, []string{"info@seguros.test"}, r.Resolve(domain.QuoteARL, true).To)
}

// Every pair yields exactly one non-empty recipient, and CC is empty iff it
// equals that recipient.
func TestResolve_TotalAndDeterministic(t *testing.T) {
	gofakeit.Seed(42)
	for i := 0; i < 50; i++ {
		a := recipients.Addresses{
			Vehiculos:   gofakeit.Email(),
			Salud:       gofakeit.Email(),
			Vida:        gofakeit.Email(),
			Mascotas:    gofakeit.Email(),
			Hogar:       gofakeit.Email(),
			Default:     gofakeit.Email(),
			Empresarial: gofakeit.Email(),
		}
		// Sometimes point CC at one of the mailboxes.
		if i%3 == 0 {
			a.CC = a.Salud
		} else {
			a.CC = gofakeit.Email()
		}
		r := recipients.New(a)
		for _, q := range domain.AllQuoteTypes {
			for _, business := range []bool{false, true} {
				first := r.Resolve(q, business)
				second := r.Resolve(q, business)
				require.Equal(t, first, second)
				require.Len(t, first.To, 1)
				require.NotEmpty(t, first.To[0])
				if first.To[0] == a.CC {
					assert.Empty(t, first.CC)
				} else {
					assert.Equal(t, []string{a.CC}, first.CC)
				}
			}
		}
	}
}
