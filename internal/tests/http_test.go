package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/app"
	"fleet/internal/domain"
	"fleet/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds the real router over the fleet's services.
func newTestRouter(f *fleet) *gin.Engine {
	return app.NewRouter(app.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(f.auth, time.Hour),
		TruckHandler:       handler.NewTruckHandler(f.trucks, f.assets),
		TrailerHandler:     handler.NewTrailerHandler(f.trailers, f.assets),
		TireHandler:        handler.NewTireHandler(f.tires, f.assets),
		MaintenanceHandler: handler.NewMaintenanceHandler(f.maintenances),
		FuelHandler:        handler.NewFuelHandler(f.fuel),
		TripHandler:        handler.NewTripHandler(f.trips),
		UserHandler:        handler.NewUserHandler(f.users),
		TokenValidator:     f.jwt,
	})
}

type apiResponse struct {
	Success bool                `json:"success"`
	Count   *int                `json:"count"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

func (f *fleet) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := f.jwt.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func newAdmin(f *fleet) *domain.User {
	admin := f.addDriver("admin-1")
	admin.Role = domain.RoleAdmin
	return admin
}

func TestHTTP_Health(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFleet(t))

	w, _ := do(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHTTP_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFleet(t))

	w, resp := do(t, router, http.MethodGet, "/api/trucks", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if resp.Success || resp.Message == "" {
		t.Errorf("expected an error envelope, got %+v", resp)
	}

	w, _ = do(t, router, http.MethodGet, "/api/trucks", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for an invalid token, got %d", w.Code)
	}
}

func TestHTTP_DriverCannotManageTrucks(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, f.addDriver("driver-1"))

	w, _ := do(t, router, http.MethodPost, "/api/trucks", token, map[string]any{
		"plate": "DRV-1", "make": "MAN", "model": "TGX",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	w, resp := do(t, router, http.MethodGet, "/api/trucks", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected drivers to list trucks, got %d", w.Code)
	}
	if resp.Count == nil || *resp.Count != 0 {
		t.Errorf("expected an empty counted list, got %+v", resp)
	}

	w, _ = do(t, router, http.MethodGet, "/api/users", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 on users, got %d", w.Code)
	}
}

func TestHTTP_AdminCreatesTruck(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, newAdmin(f))

	w, resp := do(t, router, http.MethodPost, "/api/trucks", token, map[string]any{
		"plate": "12-A-345", "make": "DAF", "model": "XF", "tankCapacity": 700,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Error("expected success")
	}

	var truck struct {
		ID                string                    `json:"id"`
		Plate             string                    `json:"plate"`
		Status            domain.TruckStatus        `json:"status"`
		MaintenanceAlerts []domain.MaintenanceAlert `json:"maintenanceAlerts"`
	}
	if err := json.Unmarshal(resp.Data, &truck); err != nil {
		t.Fatalf("failed to decode truck: %v", err)
	}
	if truck.ID == "" || truck.Plate != "12-A-345" || truck.Status != domain.TruckStatusAvailable {
		t.Errorf("unexpected truck: %+v", truck)
	}

	w, resp = do(t, router, http.MethodPost, "/api/trucks", token, map[string]any{
		"plate": "12-A-345", "make": "DAF", "model": "XF",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a duplicate plate, got %d", w.Code)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}
}

func TestHTTP_ValidationErrorsAreListed(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, newAdmin(f))

	w, resp := do(t, router, http.MethodPost, "/api/trucks", token, map[string]any{
		"plate": "X-1", "currentOdometer": -5,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	fields := map[string]bool{}
	for _, fe := range resp.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"make", "model", "currentOdometer"} {
		if !fields[want] {
			t.Errorf("expected an error on %s, got %+v", want, resp.Errors)
		}
	}
}

func TestHTTP_NotFound(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, newAdmin(f))

	for _, path := range []string{"/api/trucks/missing", "/api/trips/missing", "/api/maintenances/missing"} {
		w, resp := do(t, router, http.MethodGet, path, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
		if resp.Success {
			t.Errorf("%s: expected failure envelope", path)
		}
	}
}

func TestHTTP_DeleteTruckInUse(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, newAdmin(f))
	f.addTruck("truck-1", 0, domain.TruckStatusOnTrip)
	f.addTrip("trip-1", "driver-1", "truck-1", "", domain.TripStatusInProgress, 0)

	w, _ := do(t, router, http.MethodDelete, "/api/trucks/truck-1", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHTTP_DriverSeesOwnTrips(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	driver := f.addDriver("driver-1")
	f.addTrip("trip-1", "driver-1", "truck-1", "", domain.TripStatusPlanned, 0)
	f.addTrip("trip-2", "driver-2", "truck-2", "", domain.TripStatusPlanned, 0)
	token := f.tokenFor(t, driver)

	w, resp := do(t, router, http.MethodGet, "/api/trips/driver/mine", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Count == nil || *resp.Count != 1 {
		t.Fatalf("expected 1 trip, got %+v", resp.Count)
	}
	if !strings.Contains(string(resp.Data), `"trip-1"`) {
		t.Errorf("expected trip-1 in %s", resp.Data)
	}

	w, _ = do(t, router, http.MethodGet, "/api/trips", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 on the admin listing, got %d", w.Code)
	}
}

func TestHTTP_LoginHidesPasswordHash(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	register(t, f, "driver@fleet.test", "s3cret-pass")

	w, resp := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "driver@fleet.test", "password": "s3cret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(strings.ToLower(string(resp.Data)), "password") {
		t.Errorf("expected no password field in %s", resp.Data)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil || body.AccessToken == "" {
		t.Fatalf("expected an access token, got %s", resp.Data)
	}

	w, _ = do(t, router, http.MethodGet, "/api/auth/me", body.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected the issued token to authenticate, got %d", w.Code)
	}

	w, _ = do(t, router, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "driver@fleet.test", "password": "wrong-pass",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong credentials, got %d", w.Code)
	}
}

func TestHTTP_AnonymousCannotRegisterAdmin(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)

	w, _ := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "boss@fleet.test", "password": "s3cret-pass", "fullName": "Boss", "role": "admin",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	w, _ = do(t, router, http.MethodPost, "/api/auth/register", f.tokenFor(t, newAdmin(f)), map[string]any{
		"email": "boss@fleet.test", "password": "s3cret-pass", "fullName": "Boss", "role": "admin",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("expected an admin to create an admin, got %d", w.Code)
	}
}

func TestHTTP_CreatedUserNeverExposesPasswordHash(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	router := newTestRouter(f)
	token := f.tokenFor(t, newAdmin(f))

	w, resp := do(t, router, http.MethodPost, "/api/users", token, map[string]any{
		"fullName": "Youssef Driver", "email": "youssef@fleet.test", "password": "s3cret-pass", "licenseNumber": "LIC-42",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(strings.ToLower(string(resp.Data)), "password") {
		t.Errorf("expected no password field in %s", resp.Data)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil || created.ID == "" {
		t.Fatalf("expected a user id, got %s", resp.Data)
	}

	stored := f.repos.Users.GetUser(created.ID)
	if stored == nil || stored.PasswordHash == "" {
		t.Fatal("expected the user to be stored with a hash")
	}

	w, resp = do(t, router, http.MethodGet, "/api/users/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if strings.Contains(strings.ToLower(body), "password") || strings.Contains(body, stored.PasswordHash) {
		t.Errorf("expected the password hash to stay hidden, got %s", body)
	}
	if !strings.Contains(string(resp.Data), `"youssef@fleet.test"`) {
		t.Errorf("expected the fetched user in %s", resp.Data)
	}
}
