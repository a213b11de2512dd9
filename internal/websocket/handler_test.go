package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch-srv/internal/model"
	"dispatch-srv/internal/registry"
	pkgJWT "dispatch-srv/pkg/jwt"
	"dispatch-srv/pkg/scope"
)

type stubResponderDirectory struct{}

func (d *stubResponderDirectory) Detail(ctx context.Context, id int64) (model.Responder, error) {
	return model.Responder{ID: id, Status: model.ResponderActive, IsOnDuty: true}, nil
}
func (d *stubResponderDirectory) ListDispatchable(ctx context.Context) ([]model.Responder, error) {
	return nil, nil
}
func (d *stubResponderDirectory) SetOnDuty(ctx context.Context, id int64, onDuty bool, lat, lon *float64) (model.Responder, error) {
	return model.Responder{ID: id, IsOnDuty: onDuty}, nil
}
func (d *stubResponderDirectory) UpdateLocation(ctx context.Context, id int64, lat, lon float64) error {
	return nil
}
func (d *stubResponderDirectory) IncrementEmergencyCount(ctx context.Context, id int64) error {
	return nil
}

type stubUserDirectory struct{}

func (d *stubUserDirectory) Detail(ctx context.Context, id int64) (model.User, error) {
	return model.User{ID: id, IsActive: true}, nil
}

func newTestHandler(t *testing.T) (*Handler, pkgJWT.Manager) {
	t.Helper()

	logger := &testLogger{}
	reg := registry.NewRegistry(logger, 10)
	jwtManager := pkgJWT.New(pkgJWT.Config{
		SecretKey: "test-secret-key-with-32-characters!!",
		Issuer:    "dispatch-srv",
		TTL:       time.Hour,
	})

	h := NewHandler(
		reg,
		NewCommandHandler(nil, logger),
		jwtManager,
		&stubResponderDirectory{},
		&stubUserDirectory{},
		logger,
		WSConfig{PongWait: time.Minute, PingPeriod: 50 * time.Second, WriteWait: 10 * time.Second},
		"development",
		nil,
	)
	return h, jwtManager
}

func TestHandleWebSocketBindsTokenToIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, jwtManager := newTestHandler(t)
	router := gin.New()
	router.GET("/ws", h.HandleWebSocket)

	responderToken, err := jwtManager.GenerateToken("7", scope.RoleResponder, "")
	if err != nil {
		t.Fatalf("generate responder token: %v", err)
	}
	residentToken, err := jwtManager.GenerateToken("7", scope.RoleResident, "rt-05")
	if err != nil {
		t.Fatalf("generate resident token: %v", err)
	}
	adminToken, err := jwtManager.GenerateToken("1", scope.RoleAdmin, "")
	if err != nil {
		t.Fatalf("generate admin token: %v", err)
	}

	tests := []struct {
		name     string
		query    string
		token    string
		wantCode int
	}{
		// Authorized identities get past the binding check; the upgrade
		// itself then fails because the request is plain HTTP.
		{"responder as own id", "responderId=7", responderToken, http.StatusBadRequest},
		{"resident as own id", "userId=7", residentToken, http.StatusBadRequest},
		{"admin as any responder", "responderId=9", adminToken, http.StatusBadRequest},

		// Binding violations are rejected before the upgrade.
		{"responder as other responder", "responderId=9", responderToken, http.StatusForbidden},
		{"resident as responder with same id", "responderId=7", residentToken, http.StatusForbidden},
		{"responder as resident", "userId=7", responderToken, http.StatusForbidden},
		{"resident as other resident", "userId=8", residentToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ws?token="+tt.token+"&"+tt.query, nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}
