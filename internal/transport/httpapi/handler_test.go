package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orders/internal/service/order"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders/internal/transport/httpapi"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logger.WithField("component", "test")

	svc := order.NewService(memory.NewOrderRepository(), nil, entry)
	handler := httpapi.NewHandler(svc, entry)

	mux := http.NewServeMux()
	handler.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

const validOrderBody = `{
	"customerName": "Jane Doe",
	"customerEmail": "jane@example.com",
	"items": [{"sku": "A1", "name": "Widget", "quantity": 2, "unitPrice": 9.99}],
	"totalAmount": 19.98
}`

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeOrder(t *testing.T, resp *http.Response) order.OrderResponse {
	t.Helper()

	var body order.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func createOrder(t *testing.T, server *httptest.Server) order.OrderResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/orders", validOrderBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeOrder(t, resp)
}

func TestCreateOrder(t *testing.T) {
	server := newTestServer(t)

	created := createOrder(t, server)

	require.NotEmpty(t, created.ID)
	require.Equal(t, "PENDING", created.Status)
	require.Len(t, created.Items, 1)
	require.Equal(t, int32(2), created.Items[0].Quantity)
	require.True(t, created.CreatedAt.Equal(created.UpdatedAt))
}

func TestCreateOrder_ValidationErrorMap(t *testing.T) {
	server := newTestServer(t)

	body := `{
		"customerName": "",
		"customerEmail": "not-an-email",
		"items": [{"sku": "A1", "name": "Widget", "quantity": 0, "unitPrice": 9.99}],
		"totalAmount": 19.98
	}`
	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/orders", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	require.Contains(t, fields, "customerName")
	require.Contains(t, fields, "customerEmail")
	require.Contains(t, fields, "items[0].quantity")
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/orders", `{"customerName": `)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrder_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/orders/unknown-id", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body["error"], "unknown-id")
}

func TestUpdateOrder_RoundTrip(t *testing.T) {
	server := newTestServer(t)
	created := createOrder(t, server)

	time.Sleep(5 * time.Millisecond)

	replacement := `{
		"customerName": "John Smith",
		"customerEmail": "john@example.com",
		"items": [
			{"sku": "B2", "name": "Gadget", "quantity": 1, "unitPrice": 5.00},
			{"sku": "C3", "name": "Gizmo", "quantity": 3, "unitPrice": 1.50}
		],
		"totalAmount": 9.50
	}`
	resp := doRequest(t, http.MethodPut, server.URL+"/api/v1/orders/"+created.ID, replacement)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeOrder(t, resp)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "John Smith", updated.CustomerName)
	require.Equal(t, created.Status, updated.Status)
	require.Len(t, updated.Items, 2)
	require.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateOrder_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/v1/orders/unknown-id", validOrderBody)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatus(t *testing.T) {
	server := newTestServer(t)
	created := createOrder(t, server)

	time.Sleep(5 * time.Millisecond)

	resp := doRequest(t, http.MethodPatch, server.URL+"/api/v1/orders/"+created.ID+"/status", `{"status": "SHIPPED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeOrder(t, resp)
	require.Equal(t, "SHIPPED", updated.Status)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateStatus_Unknown(t *testing.T) {
	server := newTestServer(t)
	created := createOrder(t, server)

	resp := doRequest(t, http.MethodPatch, server.URL+"/api/v1/orders/"+created.ID+"/status", `{"status": "LOST"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	require.Contains(t, fields, "status")
}

func TestDeleteOrder_Twice(t *testing.T) {
	server := newTestServer(t)
	created := createOrder(t, server)

	first := doRequest(t, http.MethodDelete, server.URL+"/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, first.StatusCode)

	second := doRequest(t, http.MethodDelete, server.URL+"/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, second.StatusCode)
}

func TestListOrders_FilterAndPaging(t *testing.T) {
	server := newTestServer(t)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		ids = append(ids, createOrder(t, server).ID)
	}

	resp := doRequest(t, http.MethodPatch, server.URL+"/api/v1/orders/"+ids[0]+"/status", `{"status": "SHIPPED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page order.PageResponse

	listResp := doRequest(t, http.MethodGet, server.URL+"/api/v1/orders?status=SHIPPED", "")
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&page))
	require.EqualValues(t, 1, page.TotalElements)
	require.Len(t, page.Content, 1)
	require.Equal(t, ids[0], page.Content[0].ID)

	allResp := doRequest(t, http.MethodGet, fmt.Sprintf("%s/api/v1/orders?page=0&size=2", server.URL), "")
	require.Equal(t, http.StatusOK, allResp.StatusCode)
	require.NoError(t, json.NewDecoder(allResp.Body).Decode(&page))
	require.EqualValues(t, 3, page.TotalElements)
	require.Len(t, page.Content, 2)
	require.Equal(t, 2, page.TotalPages)
}

func TestListOrders_BadPageParam(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/orders?page=abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrders_UnknownStatusFilter(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/orders?status=ARCHIVED", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
