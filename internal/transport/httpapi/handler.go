package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
)

// Handler публикует операции сервиса заказов по HTTP под /api/v1/orders.
type Handler struct {
	svc    *order.Service
	logger *log.Entry
}

// NewHandler конструирует HTTP-обработчик поверх сервиса заказов.
func NewHandler(svc *order.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register добавляет маршруты API в мультиплексор.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/orders", h.create)
	mux.HandleFunc("GET /api/v1/orders", h.list)
	mux.HandleFunc("GET /api/v1/orders/{id}", h.get)
	mux.HandleFunc("PUT /api/v1/orders/{id}", h.update)
	mux.HandleFunc("PATCH /api/v1/orders/{id}/status", h.updateStatus)
	mux.HandleFunc("DELETE /api/v1/orders/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req order.OrderRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Create(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, ok := h.queryInt(w, query.Get("page"), "page", order.DefaultPage)
	if !ok {
		return
	}
	size, ok := h.queryInt(w, query.Get("size"), "size", order.DefaultPageSize)
	if !ok {
		return
	}

	resp, err := h.svc.List(query.Get("status"), page, size)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req order.OrderRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Update(r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req order.StatusUpdateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.UpdateStatus(r.PathValue("id"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody читает JSON-тело запроса. Неразборчивое тело — 400.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// queryInt разбирает числовой query-параметр с значением по умолчанию.
func (h *Handler) queryInt(w http.ResponseWriter, raw, name string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{name: "must be a non-negative integer"})
		return 0, false
	}
	return value, true
}

// writeError переводит типизированные ошибки сервиса в HTTP-ответы:
// валидация — 400 с картой полей, отсутствие заказа — 404, остальное — 500
// без утечки внутренних деталей.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		h.writeJSON(w, http.StatusBadRequest, ve.Fields)
		return
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	h.logger.WithError(err).Error("request failed")
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Warn("failed to encode response body")
	}
}
