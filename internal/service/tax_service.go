package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/report"
	"github.com/taxfolk/selfassess/internal/storage"
	"github.com/taxfolk/selfassess/internal/tax"
)

// TaxService serves computations, overviews, reports and breakdowns.
type TaxService struct {
	engine *tax.Engine
}

// NewTaxService creates a TaxService over the given store.
func NewTaxService(store storage.Store) *TaxService {
	return &TaxService{engine: tax.NewEngine(store)}
}

// Register mounts the tax routes on the mux.
func (s *TaxService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tax/{person}/{year}", s.HandleComputation)
	mux.HandleFunc("GET /api/tax/{person}/{year}/overview", s.HandleOverview)
	mux.HandleFunc("GET /api/tax/{person}/{year}/report", s.HandleReport)
	mux.HandleFunc("GET /api/tax/{person}/{year}/breakdown/{type}", s.HandleBreakdown)
}

// computation parses the path parameters and builds the computation,
// writing the appropriate error response on failure.
func (s *TaxService) computation(w http.ResponseWriter, r *http.Request) (*tax.Computation, bool) {
	year, err := models.ParseTaxYear(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	c, err := s.engine.NewComputation(r.Context(), r.PathValue("person"), year)
	if err != nil {
		writeComputationError(w, err)
		return nil, false
	}
	return c, true
}

func writeComputationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrPersonNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrConstantNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tax.ErrMultipleBusinesses):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// HandleComputation returns the full computation result as JSON.
func (s *TaxService) HandleComputation(w http.ResponseWriter, r *http.Request) {
	c, ok := s.computation(w, r)
	if !ok {
		return
	}
	result, err := c.Result(r.Context())
	if err != nil {
		writeComputationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleOverview returns the one-screen digest overview as plain text.
func (s *TaxService) HandleOverview(w http.ResponseWriter, r *http.Request) {
	c, ok := s.computation(w, r)
	if !ok {
		return
	}
	overview, err := report.Overview(r.Context(), c)
	if err != nil {
		writeComputationError(w, err)
		return
	}
	writeText(w, overview)
}

// HandleReport renders the box-by-box return as plain text. The report
// type comes from the "type" query parameter, defaulting to the printed
// tax return layout.
func (s *TaxService) HandleReport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.computation(w, r)
	if !ok {
		return
	}

	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		reportType = report.TypeTaxReturn
	}
	switch reportType {
	case report.TypeCalculation, report.TypeOnlineAnswers, report.TypeTaxReturn:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report type %q", reportType))
		return
	}

	answers, err := report.Answers(r.Context(), c, report.TaxReturnQuestions())
	if err != nil {
		writeComputationError(w, err)
		return
	}

	rep := &report.Report{
		PersonName:         c.Person().Name(),
		UniqueTaxReference: c.Person().UniqueTaxReference,
		TaxYear:            string(c.TaxYear()),
		Type:               reportType,
		Answers:            answers,
	}
	writeText(w, rep.Render())
}

// breakdownPrefixes maps the breakdown path segment to a category
// prefix builder.
var breakdownPrefixes = map[string]models.IncomeType{
	"trading":   models.SelfEmployment,
	"property":  models.UKProperty,
	"savings":   models.Interest,
	"dividends": models.Dividends,
}

// HandleBreakdown lists the ledger rows behind one income class as
// plain text.
func (s *TaxService) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	incomeType, ok := breakdownPrefixes[r.PathValue("type")]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown breakdown type %q", r.PathValue("type")))
		return
	}

	c, ok := s.computation(w, r)
	if !ok {
		return
	}
	rows, err := c.Breakdown(r.Context(), models.TypePrefix(c.Person().Code, incomeType))
	if err != nil {
		writeComputationError(w, err)
		return
	}
	writeText(w, report.FormatBreakdown(rows))
}
