// Package recipients decides which administrator mailbox receives each
// quote notification.
package recipients

import (
	"strings"

	"github.com/csg33k/cotizador/internal/domain"
)

// Addresses is the configured mailbox table.
type Addresses struct {
	Vehiculos   string
	Salud       string
	Vida        string
	Mascotas    string
	Hogar       string
	Default     string
	Empresarial string
	CC          string
}

// Resolver maps a product line and segment to a RecipientSet.
type Resolver struct {
	business string
	fallback string
	cc       string
	personal map[domain.QuoteType]string
}

func New(a Addresses) *Resolver {
	r := &Resolver{
		business: strings.TrimSpace(a.Empresarial),
		fallback: strings.TrimSpace(a.Default),
		cc:       strings.TrimSpace(a.CC),
		personal: make(map[domain.QuoteType]string),
	}
	for q, addr := range map[domain.QuoteType]string{
		domain.QuoteVehiculos: a.Vehiculos,
		domain.QuoteSalud:     a.Salud,
		domain.QuoteVida:      a.Vida,
		domain.QuoteMascotas:  a.Mascotas,
		domain.QuoteHogar:     a.Hogar,
	} {
		if addr = strings.TrimSpace(addr); addr != "" {
			r.personal[q] = addr
		}
	}
	if r.business == "" {
		r.business = r.fallback
	}
	return r
}

// Resolve returns the admin recipients. Business quotes always go to the
// business mailbox; personal quotes go through the per-line table and fall
// back to the default mailbox. CC is dropped when it equals To.
func (r *Resolver) Resolve(q domain.QuoteType, business bool) domain.RecipientSet {
	to := r.fallback
	if business {
		to = r.business
	} else if addr, ok := r.personal[q.Normalized()]; ok {
		to = addr
	}

	set := domain.RecipientSet{To: []string{to}, CC: []string{}}
	if r.cc != "" && !strings.EqualFold(r.cc, to) {
		set.CC = []string{r.cc}
	}
	return set
}
