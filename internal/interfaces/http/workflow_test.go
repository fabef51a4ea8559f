package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	appauth "github.com/tu-usuario/acceso-residencial/internal/application/auth"
	"github.com/tu-usuario/acceso-residencial/internal/application/dto"
	"github.com/tu-usuario/acceso-residencial/internal/application/usecase"
	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
	apphttp "github.com/tu-usuario/acceso-residencial/internal/interfaces/http"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Replican las garantías de los repositorios de postgres:
// unicidad PENDIENTE-por-placa y updates condicionales para token y estado.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu            sync.Mutex
	intermediates []*entity.IntermediateRegistration
	preRegs       []*entity.PreRegistration
	logs          []*entity.AccessLog
}

type memIntermediateRepo struct{ s *memStore }

func (r *memIntermediateRepo) Create(rec *entity.IntermediateRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rec
	r.s.intermediates = append(r.s.intermediates, &cp)
	return nil
}

func (r *memIntermediateRepo) GetByID(id string) (*entity.IntermediateRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.intermediates {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memIntermediateRepo) Approve(token string, approvedAt time.Time) (*entity.IntermediateRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.intermediates {
		if rec.ApprovalToken == token && rec.Status == entity.IntermediateAwaitingApproval {
			rec.Status = entity.IntermediateApproved
			at := approvedAt
			rec.ApprovedAt = &at
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memIntermediateRepo) ListPending() ([]*entity.IntermediateRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.IntermediateRegistration
	for i := len(r.s.intermediates) - 1; i >= 0; i-- {
		if r.s.intermediates[i].Status == entity.IntermediateAwaitingApproval {
			cp := *r.s.intermediates[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPreRegRepo struct{ s *memStore }

func (r *memPreRegRepo) Create(p *entity.PreRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Status == entity.PreRegPendiente {
		for _, rec := range r.s.preRegs {
			if rec.Plates == p.Plates && rec.Status == entity.PreRegPendiente {
				return domain.ErrConflict
			}
		}
	}
	cp := *p
	r.s.preRegs = append(r.s.preRegs, &cp)
	return nil
}

func (r *memPreRegRepo) GetByID(id string) (*entity.PreRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.preRegs {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPreRegRepo) FindPendingByPlates(plates string) (*entity.PreRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.preRegs {
		if rec.Plates == plates && rec.Status == entity.PreRegPendiente {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPreRegRepo) TransitionStatus(plates, from, to string) (*entity.PreRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.preRegs {
		if rec.Plates == plates && rec.Status == from {
			rec.Status = to
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPreRegRepo) Search(term string, limit, offset int) ([]*entity.PreRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := strings.ToLower(term)
	var out []*entity.PreRegistration
	for _, rec := range r.s.preRegs {
		if strings.Contains(strings.ToLower(rec.Plates), t) ||
			strings.Contains(strings.ToLower(rec.VisitorName), t) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPreRegRepo) List(limit, offset int) ([]*entity.PreRegistration, error) {
	return r.Search("", limit, offset)
}

type memAddressRepo struct {
	communities []*entity.Community
	houses      []*entity.House
}

func (r *memAddressRepo) CreateCommunity(c *entity.Community) error {
	r.communities = append(r.communities, c)
	return nil
}

func (r *memAddressRepo) GetCommunityByID(id string) (*entity.Community, error) {
	for _, c := range r.communities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memAddressRepo) ListCommunities() ([]*entity.Community, error) { return r.communities, nil }

func (r *memAddressRepo) CreateHouse(h *entity.House) error {
	r.houses = append(r.houses, h)
	return nil
}

func (r *memAddressRepo) ListHousesByCommunity(communityID string) ([]*entity.House, error) {
	var out []*entity.House
	for _, h := range r.houses {
		if h.CommunityID == communityID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memAddressRepo) GetHouse(communityID, number string) (*entity.House, error) {
	for _, h := range r.houses {
		if h.CommunityID == communityID && h.Number == number {
			return h, nil
		}
	}
	return nil, nil
}

func (r *memAddressRepo) GetHouseByLabel(label string) (*entity.House, error) {
	for _, h := range r.houses {
		for _, c := range r.communities {
			if c.ID == h.CommunityID && c.Name+" - Casa "+h.Number == label {
				return h, nil
			}
		}
	}
	return nil, nil
}

type memAccessLogRepo struct{ s *memStore }

func (r *memAccessLogRepo) Create(l *entity.AccessLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *l
	r.s.logs = append(r.s.logs, &cp)
	return nil
}

func (r *memAccessLogRepo) List(limit, offset int) ([]*entity.AccessLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.AccessLog(nil), r.s.logs...), nil
}

func (r *memAccessLogRepo) Search(term string, limit, offset int) ([]*entity.AccessLog, error) {
	return r.List(limit, offset)
}

type memVehicleRepo struct{ vehicles []*entity.Vehicle }

func (r *memVehicleRepo) Create(v *entity.Vehicle) error {
	r.vehicles = append(r.vehicles, v)
	return nil
}

func (r *memVehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	for _, v := range r.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *memVehicleRepo) GetByPlates(plates string) (*entity.Vehicle, error) {
	for _, v := range r.vehicles {
		if v.Plates == plates {
			return v, nil
		}
	}
	return nil, nil
}

func (r *memVehicleRepo) List(limit, offset int) ([]*entity.Vehicle, error) { return r.vehicles, nil }

func (r *memVehicleRepo) Update(v *entity.Vehicle) error { return nil }

func (r *memVehicleRepo) Delete(id string) error { return nil }

type memUserRepo struct{ users []*entity.User }

func (r *memUserRepo) Create(u *entity.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) { return r.users, nil }

// memTxRunner ejecuta el canje sin transacción real, sobre los mismos fakes.
type memTxRunner struct {
	intRepo repository.IntermediateRegistrationRepository
	preRepo repository.PreRegistrationRepository
}

func (r *memTxRunner) RunApproval(ctx context.Context, fn func(
	intRepo repository.IntermediateRegistrationRepository,
	preRepo repository.PreRegistrationRepository,
) error) error {
	return fn(r.intRepo, r.preRepo)
}

// noopNotifier descarta todo: el flujo de negocio no depende de la entrega.
type noopNotifier struct{}

func (noopNotifier) EnqueueApproval(phone, token, visitorName, plates string)            {}
func (noopNotifier) EnqueueNotice(phone, residentName, visitorName string, at time.Time) {}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre fakes: router real, middlewares reales, usecases
// reales. Solo la persistencia y la notificación son de mentira.
// ──────────────────────────────────────────────────────────────────────────────

func buildWorkflowApp(t *testing.T) *fiber.App {
	t.Helper()
	store := &memStore{}
	intRepo := &memIntermediateRepo{s: store}
	preRepo := &memPreRegRepo{s: store}
	addrRepo := &memAddressRepo{
		communities: []*entity.Community{{ID: "com-1", Name: "Los Pinos"}},
		houses: []*entity.House{{
			ID:           "house-1",
			CommunityID:  "com-1",
			Number:       "42",
			ResidentName: "Ana Torres",
			ContactPhone: "+5215512345678",
		}},
	}
	logRepo := &memAccessLogRepo{s: store}
	log := logger.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ApprovalUC:        access.NewApprovalUseCase(intRepo, addrRepo, &memTxRunner{intRepo: intRepo, preRepo: preRepo}, noopNotifier{}, log),
		PreRegistrationUC: access.NewPreRegistrationUseCase(preRepo, addrRepo, logRepo, noopNotifier{}, log),
		AddressUC:         usecase.NewAddressUseCase(addrRepo),
		VehicleUC:         usecase.NewVehicleUseCase(&memVehicleRepo{}),
		AccessLogUC:       usecase.NewAccessLogUseCase(logRepo),
		AuthUC:            appauth.NewAuthUseCase(&memUserRepo{}, appauth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		JWTSecret:         testJWTSecret,
		Redis:             nil, // sin Redis el rate limiter es passthrough
		Log:               log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, authHeader string, payload interface{}) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: intake → aprobación → consulta de caseta → entrada → salida
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_VisitaCompleta(t *testing.T) {
	app := buildWorkflowApp(t)
	guardia := tokenForRole(t, "guardia")

	// 1. El visitante llena el formulario público.
	resp := doJSON(t, app, http.MethodPost, "/api/intake", "", dto.CreateIntermediateRegistrationRequest{
		Plates:        "abc123",
		VisitorName:   "Juan Pérez",
		CommunityID:   "com-1",
		HouseNumber:   "42",
		PersonToVisit: "Ana Torres",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.IntermediateRegistrationResponse
	decode(t, resp, &created)
	assert.Equal(t, "ABC123", created.Plates)
	require.NotEmpty(t, created.ApprovalToken)

	// 2. La solicitud aparece en pendientes para el staff.
	resp = doJSON(t, app, http.MethodGet, "/api/intake/pending", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []dto.IntermediateRegistrationResponse
	decode(t, resp, &pending)
	require.Len(t, pending, 1)

	// 3. El residente abre el enlace de WhatsApp (GET público).
	resp = doJSON(t, app, http.MethodGet, "/api/intake/approve/"+created.ApprovalToken, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved dto.ApproveResponse
	decode(t, resp, &approved)
	assert.True(t, approved.Approved)

	// 4. Un segundo canje del mismo token ya no sirve.
	resp = doJSON(t, app, http.MethodGet, "/api/intake/approve/"+created.ApprovalToken, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "el token es de un solo uso")

	// 5. El vehículo llega a caseta: la consulta por placas lo encuentra.
	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/ABC123", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lookup dto.ArrivalLookupResponse
	decode(t, resp, &lookup)
	require.True(t, lookup.Found, "el pre-registro derivado debe estar vigente")
	assert.Equal(t, "Los Pinos - Casa 42", lookup.PreRegistration.HouseVisited)
	assert.Equal(t, entity.PreRegPendiente, lookup.PreRegistration.Status)

	// 6. El guardia marca la entrada.
	resp = doJSON(t, app, http.MethodPatch, "/api/pre-registrations/ABC123/entry", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var afterEntry dto.PreRegistrationResponse
	decode(t, resp, &afterEntry)
	assert.Equal(t, entity.PreRegDentro, afterEntry.Status)

	// 7. Una segunda entrada se rechaza: la máquina de estados es lineal.
	resp = doJSON(t, app, http.MethodPatch, "/api/pre-registrations/ABC123/entry", guardia, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// 8. La salida cierra el ciclo.
	resp = doJSON(t, app, http.MethodPatch, "/api/pre-registrations/ABC123/exit", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var afterExit dto.PreRegistrationResponse
	decode(t, resp, &afterExit)
	assert.Equal(t, entity.PreRegFuera, afterExit.Status)

	// 9. Cerrado el ciclo, la placa ya no empata en caseta.
	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/ABC123", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &lookup)
	assert.False(t, lookup.Found)

	// 10. Entrada y salida quedaron en la bitácora.
	resp = doJSON(t, app, http.MethodGet, "/api/access-logs", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []dto.AccessLogResponse
	decode(t, resp, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AccessEntrada, logs[0].Direction)
	assert.Equal(t, entity.AccessSalida, logs[1].Direction)
	assert.Equal(t, testUserID, logs[0].GuardID, "el guardia autenticado firma el movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conflicto: dos PENDIENTE para la misma placa
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_AltaDirectaConflicto(t *testing.T) {
	app := buildWorkflowApp(t)
	guardia := tokenForRole(t, "guardia")

	in := dto.CreatePreRegistrationRequest{
		Plates:        "xyz999",
		VisitorName:   "María López",
		HouseVisited:  "Los Pinos - Casa 42",
		ArrivalTime:   time.Now().Add(time.Hour),
		PersonToVisit: "Ana Torres",
	}

	resp := doJSON(t, app, http.MethodPost, "/api/pre-registrations", guardia, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Misma placa, otro visitante: 409 y el original intacto.
	in.VisitorName = "Pedro Gómez"
	resp = doJSON(t, app, http.MethodPost, "/api/pre-registrations", guardia, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode,
		"no puede haber dos PENDIENTE con la misma placa")

	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/XYZ999", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lookup dto.ArrivalLookupResponse
	decode(t, resp, &lookup)
	require.True(t, lookup.Found)
	assert.Equal(t, "María López", lookup.PreRegistration.VisitorName, "el registro original no se toca")
}

// Canjear un token cuya placa ya tiene un PENDIENTE (alta directa hecha después
// del intake) responde 409, no 500: es un conflicto de negocio, no un error interno.
func TestWorkflow_AprobarConPendienteExistente(t *testing.T) {
	app := buildWorkflowApp(t)
	guardia := tokenForRole(t, "guardia")

	// 1. Intake público para la placa.
	resp := doJSON(t, app, http.MethodPost, "/api/intake", "", dto.CreateIntermediateRegistrationRequest{
		Plates:      "abc123",
		VisitorName: "Juan Pérez",
		CommunityID: "com-1",
		HouseNumber: "42",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.IntermediateRegistrationResponse
	decode(t, resp, &created)

	// 2. Alta directa para la misma placa antes de que el residente apruebe.
	resp = doJSON(t, app, http.MethodPost, "/api/pre-registrations", guardia, dto.CreatePreRegistrationRequest{
		Plates:        "ABC123",
		VisitorName:   "Otro Visitante",
		HouseVisited:  "Los Pinos - Casa 42",
		ArrivalTime:   time.Now(),
		PersonToVisit: "Ana Torres",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 3. El canje choca contra el PENDIENTE existente: conflicto, no error interno.
	resp = doJSON(t, app, http.MethodGet, "/api/intake/approve/"+created.ApprovalToken, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode,
		"el canje contra una placa ya PENDIENTE debe responder 409")

	// 4. El PENDIENTE del alta directa queda intacto.
	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/ABC123", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lookup dto.ArrivalLookupResponse
	decode(t, resp, &lookup)
	require.True(t, lookup.Found)
	assert.Equal(t, "Otro Visitante", lookup.PreRegistration.VisitorName)
}

// Un PENDIENTE cuya llegada estimada quedó a más de 2 horas no empata en caseta.
func TestWorkflow_ArrivalFueraDeVentana(t *testing.T) {
	app := buildWorkflowApp(t)
	guardia := tokenForRole(t, "guardia")

	resp := doJSON(t, app, http.MethodPost, "/api/pre-registrations", guardia, dto.CreatePreRegistrationRequest{
		Plates:        "old111",
		VisitorName:   "Visitante Olvidado",
		HouseVisited:  "Los Pinos - Casa 42",
		ArrivalTime:   time.Now().Add(-3 * time.Hour),
		PersonToVisit: "Ana Torres",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/OLD111", guardia, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lookup dto.ArrivalLookupResponse
	decode(t, resp, &lookup)
	assert.False(t, lookup.Found, "un PENDIENTE viejo se trata como inexistente, sin error")
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_RutasProtegidas(t *testing.T) {
	app := buildWorkflowApp(t)

	// Caseta requiere token.
	resp := doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/ABC123", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Residente no opera caseta.
	resp = doJSON(t, app, http.MethodGet, "/api/pre-registrations/arrival/ABC123", tokenForRole(t, "residente"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Crear comunidades es solo de admin.
	resp = doJSON(t, app, http.MethodPost, "/api/communities", tokenForRole(t, "guardia"), dto.CreateCommunityRequest{Name: "Otra"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// El intake es público.
	resp = doJSON(t, app, http.MethodPost, "/api/intake", "", dto.CreateIntermediateRegistrationRequest{
		Plates:      "pub123",
		CommunityID: "com-1",
		HouseNumber: "42",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
