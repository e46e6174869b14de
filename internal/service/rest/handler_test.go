package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/smartworking/order-processing/internal/domain"
	"github.com/smartworking/order-processing/internal/service/rest"
	"github.com/smartworking/order-processing/internal/service/status"
	"github.com/smartworking/order-processing/internal/storage/memory"
)

type fixture struct {
	server  *httptest.Server
	service *status.Service
	repo    domain.OrderRepository
}

func newFixture(t *testing.T, settings status.Settings) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logger.WithField("component", "test")

	repo := memory.NewOrderRepository()
	service := status.NewService(
		repo,
		memory.NewChangelogRepository(),
		status.NewCooldownGuard(memory.NewCooldownStore()),
		nil,
		nil,
		status.StaticSettings(settings),
		nil,
		nil,
		entry,
	)
	server := httptest.NewServer(rest.NewRouter(rest.NewHandler(service, entry)))
	t.Cleanup(server.Close)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = service.Shutdown(ctx)
	})

	return &fixture{server: server, service: service, repo: repo}
}

func (f *fixture) seedOrder(t *testing.T) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, f.repo.Create(context.Background(), domain.Order{
		ID:        "5",
		StoreID:   "1",
		State:     domain.OrderStateNew,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func postStatus(t *testing.T, f *fixture, body string, headers map[string]string) (*http.Response, []rest.StatusEnvelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/V1/orders/status", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []rest.StatusEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1, "contract is a single-element array")
	return resp, out
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	f := newFixture(t, status.Settings{Enabled: true})
	f.seedOrder(t)

	resp, out := postStatus(t, f, `{"order_increment_id":"5","new_order_status":"processing"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "success", out[0].Status)
	require.NotEmpty(t, out[0].Message)
}

func TestUpdateOrderStatus_InvalidBody(t *testing.T) {
	f := newFixture(t, status.Settings{Enabled: true})

	resp, out := postStatus(t, f, `{not json`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, string(domain.RejectionInvalidInput), out[0].Status)
}

func TestUpdateOrderStatus_RejectionCodes(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		seed     bool
		enabled  bool
		wantCode int
		wantKind domain.RejectionKind
	}{
		{
			name:     "feature disabled",
			body:     `{"order_increment_id":"5","new_order_status":"processing"}`,
			enabled:  false,
			wantCode: http.StatusForbidden,
			wantKind: domain.RejectionFeatureDisabled,
		},
		{
			name:     "missing fields",
			body:     `{"order_increment_id":"","new_order_status":"processing"}`,
			enabled:  true,
			wantCode: http.StatusBadRequest,
			wantKind: domain.RejectionMissingFields,
		},
		{
			name:     "invalid order id",
			body:     `{"order_increment_id":"abc","new_order_status":"processing"}`,
			enabled:  true,
			wantCode: http.StatusBadRequest,
			wantKind: domain.RejectionInvalidInput,
		},
		{
			name:     "not found",
			body:     `{"order_increment_id":"42","new_order_status":"processing"}`,
			enabled:  true,
			wantCode: http.StatusNotFound,
			wantKind: domain.RejectionNotFound,
		},
		{
			name:     "no-op transition",
			body:     `{"order_increment_id":"5","new_order_status":"pending"}`,
			seed:     true,
			enabled:  true,
			wantCode: http.StatusUnprocessableEntity,
			wantKind: domain.RejectionNoOpTransition,
		},
		{
			name:     "no shipment",
			body:     `{"order_increment_id":"5","new_order_status":"shipped"}`,
			seed:     true,
			enabled:  true,
			wantCode: http.StatusUnprocessableEntity,
			wantKind: domain.RejectionNoShipment,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, status.Settings{Enabled: tc.enabled})
			if tc.seed {
				f.seedOrder(t)
			}

			resp, out := postStatus(t, f, tc.body, nil)
			require.Equal(t, tc.wantCode, resp.StatusCode)
			require.Equal(t, string(tc.wantKind), out[0].Status)
			require.NotEmpty(t, out[0].Message)
		})
	}
}

// Повторный запрос того же клиента в пределах окна отдаёт 429;
// другой клиент (X-Forwarded-For) окном не задевается.
func TestUpdateOrderStatus_CooldownPerClient(t *testing.T) {
	f := newFixture(t, status.Settings{Enabled: true, CooldownLifetime: time.Hour})
	f.seedOrder(t)
	body := `{"order_increment_id":"5","new_order_status":"processing"}`
	first := map[string]string{"X-Forwarded-For": "203.0.113.7"}

	resp, _ := postStatus(t, f, body, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := postStatus(t, f, body, first)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, string(domain.RejectionTooManyRequests), out[0].Status)

	resp, out = postStatus(t, f, body, map[string]string{"X-Forwarded-For": "203.0.113.8, 10.0.0.1"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "second client hits no-op, not the cooldown")
	require.Equal(t, string(domain.RejectionNoOpTransition), out[0].Status)
}

func TestListStatusChanges(t *testing.T) {
	f := newFixture(t, status.Settings{Enabled: true})
	f.seedOrder(t)

	resp, _ := postStatus(t, f, `{"order_increment_id":"5","new_order_status":"processing"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.service.Shutdown(ctx))

	listResp, err := f.server.Client().Get(f.server.URL + "/V1/orders/5/status-changes")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var changes []rest.StatusChangeResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&changes))
	require.Len(t, changes, 1)
	require.Equal(t, "pending", changes[0].OldStatus)
	require.Equal(t, "processing", changes[0].NewStatus)
}

func TestListStatusChanges_NotFound(t *testing.T) {
	f := newFixture(t, status.Settings{Enabled: true})

	resp, err := f.server.Client().Get(f.server.URL + "/V1/orders/404/status-changes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
