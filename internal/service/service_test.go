package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/auth"
	"github.com/taxfolk/selfassess/internal/middleware"
	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/storage/sqlite"
	"github.com/taxfolk/selfassess/internal/tax"
)

const testYear = models.TaxYear("2024 to 2025")

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "selfassess-service-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	constants := map[string]string{
		tax.ConstPersonalAllowance:        "12570",
		tax.ConstBasicRateThreshold:       "50270",
		tax.ConstHigherRateThreshold:      "125140",
		tax.ConstBasicTaxRate:             "20",
		tax.ConstHigherTaxRate:            "40",
		tax.ConstAdditionalTaxRate:        "45",
		tax.ConstPersonalSavingsAllowance: "1000",
		tax.ConstSavingsNilBand:           "1000",
		tax.ConstSavingsBasicRate:         "20",
		tax.ConstDividendsAllowance:       "500",
		tax.ConstDividendsBasicRate:       "8.75",
		tax.ConstTradingIncomeAllowance:   "1000",
		tax.ConstPropertyIncomeAllowance:  "1000",
		tax.ConstMarriageAllowanceCap:     "1260",
		tax.ConstClass2WeeklyRate:         "3.45",
		tax.ConstNICWeeksInYear:           "52",
		tax.ConstSmallProfitsThreshold:    "6725",
		tax.ConstClass4LowerProfitsLimit:  "12570",
		tax.ConstClass4UpperProfitsLimit:  "50270",
		tax.ConstClass4LowerRate:          "6",
		tax.ConstClass4UpperRate:          "2",
		tax.ConstVATRegistrationThreshold: "90000",
		tax.ConstWeeklyStatePension:       "221.20",
	}
	for name, value := range constants {
		if err := store.SetConstant(ctx, testYear, name, decimal.RequireFromString(value)); err != nil {
			t.Fatalf("SetConstant failed: %v", err)
		}
	}

	person := &models.Person{Code: "S", FirstName: "Sam", LastName: "Hollis", UniqueTaxReference: "1234567890"}
	if err := store.PutPerson(ctx, person); err != nil {
		t.Fatalf("PutPerson failed: %v", err)
	}
	txns := []models.Transaction{
		{TaxYear: testYear, Date: "2024-05-01", Account: "current", Description: "consulting invoice", Nett: decimal.RequireFromString("21000"), Category: "HMRC S SES income: consulting"},
	}
	if err := store.AddTransactions(ctx, txns); err != nil {
		t.Fatalf("AddTransactions failed: %v", err)
	}

	mux := http.NewServeMux()
	NewTaxService(store).Register(mux)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleComputation(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/tax/S/2024%20to%202025")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var result tax.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.PersonName != "Sam Hollis" {
		t.Errorf("Expected Sam Hollis, got %q", result.PersonName)
	}
	if !result.TradingProfit.Equal(decimal.RequireFromString("20000")) {
		t.Errorf("Expected trading profit 20000, got %s", result.TradingProfit)
	}
	if !result.TotalTaxDue.Equal(decimal.RequireFromString("2111.20")) {
		t.Errorf("Expected total tax 2111.20, got %s", result.TotalTaxDue)
	}
}

func TestHandleComputationErrors(t *testing.T) {
	mux := newTestMux(t)

	t.Run("Unknown person is 404", func(t *testing.T) {
		rec := get(t, mux, "/api/tax/Z/2024%20to%202025")
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})

	t.Run("Malformed tax year is 400", func(t *testing.T) {
		rec := get(t, mux, "/api/tax/S/2024-2025")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("Year without constants is 404", func(t *testing.T) {
		rec := get(t, mux, "/api/tax/S/2019%20to%202020")
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleOverview(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/tax/S/2024%20to%202025/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "TRADING income: £21,000.00") {
		t.Errorf("Overview missing trading digest:\n%s", rec.Body)
	}
}

func TestHandleReport(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/tax/S/2024%20to%202025/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "HMRC tax return 2024 to 2025 for Sam Hollis") {
		t.Errorf("Report missing title:\n%s", body)
	}
	if !strings.Contains(body, "SELF-EMPLOYMENT") {
		t.Errorf("Report missing section:\n%s", body)
	}

	rec = get(t, mux, "/api/tax/S/2024%20to%202025/report?type=nonsense")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown report type, got %d", rec.Code)
	}
}

func TestHandleBreakdown(t *testing.T) {
	mux := newTestMux(t)

	rec := get(t, mux, "/api/tax/S/2024%20to%202025/breakdown/trading")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "consulting invoice") {
		t.Errorf("Breakdown missing row:\n%s", rec.Body)
	}

	rec = get(t, mux, "/api/tax/S/2024%20to%202025/breakdown/lottery")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown breakdown type, got %d", rec.Code)
	}
}

func TestLoginAndAuthMiddleware(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	authenticator := auth.NewPasswordAuthenticator("admin", hash)
	jwtManager := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	mux := http.NewServeMux()
	NewAuthService(authenticator, jwtManager).Register(mux)

	protected := middleware.RequireAuth(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, "operator: "+middleware.GetOperator(r.Context()))
	}))
	mux.Handle("GET /api/protected", protected)

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Wrong password is 401", func(t *testing.T) {
		rec := login(`{"operator":"admin","password":"wrong password"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("Valid login issues a working token", func(t *testing.T) {
		rec := login(`{"operator":"admin","password":"correct horse battery"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode login response: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		protectedRec := httptest.NewRecorder()
		mux.ServeHTTP(protectedRec, req)
		if protectedRec.Code != http.StatusOK {
			t.Fatalf("Expected 200 with token, got %d", protectedRec.Code)
		}
		if protectedRec.Body.String() != "operator: admin" {
			t.Errorf("Unexpected body: %q", protectedRec.Body)
		}
	})

	t.Run("Missing token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
}
