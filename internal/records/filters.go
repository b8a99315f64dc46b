// internal/records/filters.go
package records

import (
	"fmt"
	"strings"
	"time"
)

// ApplicantFilters narrows applicant listings. All fields combine with AND;
// empty fields are ignored.
type ApplicantFilters struct {
	Vaga   string
	Cidade string
	Bairro string
	Rua    string
	Nome   string
	CPF    string
	Status string

	// Search matches nome, email or CPF.
	Search string

	// Inclusive submission-date range. DataFim is extended to the end of
	// the day so same-day ranges return that day's records.
	DataInicio *time.Time
	DataFim    *time.Time
}

// onlyDigits strips everything but 0-9, so formatted and raw CPF values
// compare equal.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// buildWhere renders the filter set as a WHERE clause with positional
// arguments starting at $1.
func (f ApplicantFilters) buildWhere() (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, vals ...interface{}) {
		placeholders := make([]interface{}, len(vals))
		for i := range vals {
			placeholders[i] = len(args) + i + 1
		}
		conds = append(conds, fmt.Sprintf(cond, placeholders...))
		args = append(args, vals...)
	}

	if f.Vaga != "" {
		add("vaga = $%d", f.Vaga)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Cidade != "" {
		add("cidade ILIKE $%d", "%"+f.Cidade+"%")
	}
	if f.Bairro != "" {
		add("bairro ILIKE $%d", "%"+f.Bairro+"%")
	}
	if f.Rua != "" {
		add("rua ILIKE $%d", "%"+f.Rua+"%")
	}
	if f.Nome != "" {
		add("nome ILIKE $%d", "%"+f.Nome+"%")
	}
	if f.CPF != "" {
		add("cpf ILIKE $%d", "%"+onlyDigits(f.CPF)+"%")
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		// The cpf branch only joins the OR when the term carries digits,
		// otherwise '%%' would match every record.
		if digits := onlyDigits(f.Search); digits != "" {
			add("(nome ILIKE $%d OR email ILIKE $%d OR cpf ILIKE $%d)", term, term, "%"+digits+"%")
		} else {
			add("(nome ILIKE $%d OR email ILIKE $%d)", term, term)
		}
	}
	if f.DataInicio != nil {
		add("enviado_em >= $%d", *f.DataInicio)
	}
	if f.DataFim != nil {
		add("enviado_em <= $%d", endOfDay(*f.DataFim))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
