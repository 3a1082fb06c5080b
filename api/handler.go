package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"billboard-pricing/adapters/storage"
	"billboard-pricing/core/catalog"
	"billboard-pricing/core/output"
	"billboard-pricing/core/pricing"
	"billboard-pricing/core/quote"
	"billboard-pricing/core/types"
	"billboard-pricing/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"version":     s.version,
		"time":        time.Now().UTC().Format(time.RFC3339),
		"catalogHash": s.holder.Pricing().Hash(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":     s.version,
		"engine":      "billboard-pricing",
		"api_version": "v1",
	})
}

func (s *Server) handleResolveZone(w http.ResponseWriter, r *http.Request) {
	municipality := r.URL.Query().Get("municipality")
	area := r.URL.Query().Get("area")
	if strings.TrimSpace(municipality) == "" && strings.TrimSpace(area) == "" {
		s.writeError(w, r, errors.Input("municipality or area is required"))
		return
	}
	writeJSON(w, http.StatusOK, s.aggregator().ResolveZone(municipality, area))
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sel, err := selectorOf(req.Tier, req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Months <= 0 {
		s.writeError(w, r, errors.Inputf("months must be positive, got %d", req.Months))
		return
	}
	if strings.TrimSpace(string(req.Size)) == "" {
		s.writeError(w, r, errors.Input("size is required"))
		return
	}

	agg := s.aggregator()
	res := agg.ResolveZone(req.Municipality, req.Area)
	if req.Zone != "" {
		res = agg.ResolveZone(req.Zone, "")
	}
	writeJSON(w, http.StatusOK, PriceResponse{
		Zone:     res,
		Selector: sel.String(),
		Months:   req.Months,
		Lookup:   agg.PriceFor(req.Size, res.Zone, sel, req.Months),
		Currency: s.holder.Pricing().Currency,
	})
}

// selectorOf requires exactly one of tier and category
func selectorOf(tier, category string) (pricing.Selector, error) {
	switch {
	case tier != "" && category != "":
		return pricing.Selector{}, errors.Input("give either tier or category, not both")
	case tier != "":
		t, ok := types.ParseTier(tier)
		if !ok {
			return pricing.Selector{}, errors.Inputf("unknown price tier %q", tier)
		}
		return pricing.ByTier(t), nil
	case category != "":
		c, ok := types.ParseCategory(category)
		if !ok {
			return pricing.Selector{}, errors.Inputf("unknown customer category %q", category)
		}
		return pricing.ByCategory(c), nil
	default:
		return pricing.Selector{}, errors.Input("tier or category is required")
	}
}

func (s *Server) handleInstallationPrice(w http.ResponseWriter, r *http.Request) {
	var req InstallationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(string(req.Size)) == "" {
		s.writeError(w, r, errors.Input("size is required"))
		return
	}

	agg := s.aggregator()
	resp := InstallationResponse{Currency: s.holder.Installation().Currency}
	zoneName := req.Zone
	if zoneName == "" {
		res := agg.ResolveZone(req.Municipality, req.Area)
		resp.Zone = &res
		zoneName = res.Zone
	}
	resp.Price = agg.InstallationPriceFor(types.NormalizeSize(string(req.Size)), zoneName)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req quote.EstimateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	est, err := s.aggregator().Estimate(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	c := s.holder.Pricing()
	discounts := make(map[string]float64, len(c.CategoryDiscounts))
	for category, pct := range c.CategoryDiscounts {
		discounts[string(category)] = pct
	}
	writeJSON(w, http.StatusOK, PackagesResponse{
		Packages:          c.Packages,
		CategoryDiscounts: discounts,
		Currency:          c.Currency,
	})
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.aggregator().GenerateQuote(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.archive.Put(r.Context(), q); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/quotes/"+q.ID)
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	q, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.formats.Get(output.FormatPDF)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// render fully before writing so a failure can still produce an error body
	var buf bytes.Buffer
	if err := f.Render(&buf, q); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `inline; filename="quote-`+q.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.holder.Pricing()
	data, err := catalog.EncodePricingJSON(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, c.Hash(), data)
}

func (s *Server) handleGetInstallationCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.holder.Installation()
	data, err := catalog.EncodeInstallationJSON(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeRaw(w, c.Hash(), data)
}

func (s *Server) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var c *catalog.PricingCatalog
	if isHCL(r) {
		c, err = catalog.DecodePricingHCL("upload.hcl", body)
	} else {
		c, err = catalog.DecodePricingJSON(body)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := c.Validate(catalog.DefaultValidationRules())
	if !report.OK() {
		s.writeFindings(w, r, "pricing catalog failed validation", report.Err())
		return
	}

	persisted := false
	if s.store != nil {
		if err := storage.SavePricing(r.Context(), s.store, c); err != nil {
			s.writeError(w, r, err)
			return
		}
		persisted = true
	}
	s.holder.SetPricing(c)
	s.logger.Info("pricing catalog replaced",
		zap.String("hash", c.Hash()),
		zap.Int("zones", len(c.ZoneKeys())),
		zap.Int("warnings", len(report.Warnings)),
		zap.Bool("persisted", persisted))

	writeJSON(w, http.StatusOK, CatalogUpdateResponse{
		Hash:      c.Hash(),
		Zones:     len(c.ZoneKeys()),
		Persisted: persisted,
		Warnings:  messages(report.Warnings),
	})
}

func (s *Server) handlePutInstallationCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := catalog.DecodeInstallationJSON(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := catalog.ValidateInstallation(c)
	if !report.OK() {
		s.writeFindings(w, r, "installation catalog failed validation", report.Err())
		return
	}

	persisted := false
	if s.store != nil {
		if err := storage.SaveInstallation(r.Context(), s.store, c); err != nil {
			s.writeError(w, r, err)
			return
		}
		persisted = true
	}
	s.holder.SetInstallation(c)
	s.logger.Info("installation catalog replaced",
		zap.String("hash", c.Hash()),
		zap.Int("zones", len(c.ZoneKeys())),
		zap.Int("warnings", len(report.Warnings)),
		zap.Bool("persisted", persisted))

	writeJSON(w, http.StatusOK, CatalogUpdateResponse{
		Hash:      c.Hash(),
		Zones:     len(c.ZoneKeys()),
		Persisted: persisted,
		Warnings:  messages(report.Warnings),
	})
}

func isHCL(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return strings.HasSuffix(mt, "hcl")
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogBytes))
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.Input("request body is empty")
	}
	return body, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.TypeInput, "invalid JSON body", err)
	}
	return nil
}

func writeRaw(w http.ResponseWriter, hash string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", `"`+hash+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeStatus(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeStatus(w, status, string(errors.TypeOf(err)), err.Error())
}

func messages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

// writeFindings reports every blocking validation finding at once
func (s *Server) writeFindings(w http.ResponseWriter, r *http.Request, message string, err error) {
	details := messages(multierr.Errors(err))
	writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: ErrorDetail{
		Code:    string(errors.TypeCatalog),
		Message: message,
		Details: details,
	}})
}
