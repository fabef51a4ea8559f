package access

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/acceso-residencial/internal/domain"
	"github.com/tu-usuario/acceso-residencial/internal/domain/entity"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests del paquete. Replican el contrato de los
// repositorios de postgres, incluidas las garantías de concurrencia: unicidad
// PENDIENTE-por-placa en Create y updates condicionales en Approve y
// TransitionStatus.
// ──────────────────────────────────────────────────────────────────────────────

type fakePreRegistrationRepo struct {
	mu   sync.Mutex
	recs []*entity.PreRegistration
}

func (f *fakePreRegistrationRepo) Create(p *entity.PreRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.Status == entity.PreRegPendiente {
		for _, r := range f.recs {
			if r.Plates == p.Plates && r.Status == entity.PreRegPendiente {
				return domain.ErrConflict
			}
		}
	}
	cp := *p
	f.recs = append(f.recs, &cp)
	return nil
}

func (f *fakePreRegistrationRepo) GetByID(id string) (*entity.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePreRegistrationRepo) FindPendingByPlates(plates string) (*entity.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		if r.Plates == plates && r.Status == entity.PreRegPendiente {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePreRegistrationRepo) TransitionStatus(plates, from, to string) (*entity.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		if r.Plates == plates && r.Status == from {
			r.Status = to
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePreRegistrationRepo) Search(term string, limit, offset int) ([]*entity.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PreRegistration
	t := strings.ToLower(term)
	for _, r := range f.recs {
		if strings.Contains(strings.ToLower(r.Plates), t) ||
			strings.Contains(strings.ToLower(r.VisitorName), t) ||
			strings.Contains(strings.ToLower(r.HouseVisited), t) ||
			strings.Contains(strings.ToLower(r.PersonToVisit), t) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePreRegistrationRepo) List(limit, offset int) ([]*entity.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.PreRegistration, 0, len(f.recs))
	for _, r := range f.recs {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

type fakeIntermediateRepo struct {
	mu   sync.Mutex
	recs []*entity.IntermediateRegistration
}

func (f *fakeIntermediateRepo) Create(r *entity.IntermediateRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.recs = append(f.recs, &cp)
	return nil
}

func (f *fakeIntermediateRepo) GetByID(id string) (*entity.IntermediateRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeIntermediateRepo) Approve(token string, approvedAt time.Time) (*entity.IntermediateRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		// Update condicional: solo canjea si sigue AWAITING_APPROVAL.
		if r.ApprovalToken == token && r.Status == entity.IntermediateAwaitingApproval {
			r.Status = entity.IntermediateApproved
			at := approvedAt
			r.ApprovedAt = &at
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeIntermediateRepo) ListPending() ([]*entity.IntermediateRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.IntermediateRegistration
	for i := len(f.recs) - 1; i >= 0; i-- {
		if f.recs[i].Status == entity.IntermediateAwaitingApproval {
			cp := *f.recs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAddressRepo struct {
	communities []*entity.Community
	houses      []*entity.House
}

func (f *fakeAddressRepo) CreateCommunity(c *entity.Community) error {
	f.communities = append(f.communities, c)
	return nil
}

func (f *fakeAddressRepo) GetCommunityByID(id string) (*entity.Community, error) {
	for _, c := range f.communities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeAddressRepo) ListCommunities() ([]*entity.Community, error) {
	return f.communities, nil
}

func (f *fakeAddressRepo) CreateHouse(h *entity.House) error {
	f.houses = append(f.houses, h)
	return nil
}

func (f *fakeAddressRepo) ListHousesByCommunity(communityID string) ([]*entity.House, error) {
	var out []*entity.House
	for _, h := range f.houses {
		if h.CommunityID == communityID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) GetHouse(communityID, number string) (*entity.House, error) {
	for _, h := range f.houses {
		if h.CommunityID == communityID && h.Number == number {
			return h, nil
		}
	}
	return nil, nil
}

func (f *fakeAddressRepo) GetHouseByLabel(label string) (*entity.House, error) {
	for _, h := range f.houses {
		for _, c := range f.communities {
			if c.ID == h.CommunityID && c.Name+" - Casa "+h.Number == label {
				return h, nil
			}
		}
	}
	return nil, nil
}

type fakeAccessLogRepo struct {
	mu   sync.Mutex
	logs []*entity.AccessLog
	fail bool
}

func (f *fakeAccessLogRepo) Create(l *entity.AccessLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return domain.ErrNotFound
	}
	cp := *l
	f.logs = append(f.logs, &cp)
	return nil
}

func (f *fakeAccessLogRepo) List(limit, offset int) ([]*entity.AccessLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.AccessLog(nil), f.logs...), nil
}

func (f *fakeAccessLogRepo) Search(term string, limit, offset int) ([]*entity.AccessLog, error) {
	return f.List(limit, offset)
}

// fakeTxRunner ejecuta el callback directamente sobre los fakes, sin transacción
// real. Suficiente para validar la semántica del canje.
type fakeTxRunner struct {
	intRepo *fakeIntermediateRepo
	preRepo *fakePreRegistrationRepo
}

func (f *fakeTxRunner) RunApproval(ctx context.Context, fn func(
	intRepo repository.IntermediateRegistrationRepository,
	preRepo repository.PreRegistrationRepository,
) error) error {
	return fn(f.intRepo, f.preRepo)
}

// fakeNotifier registra lo encolado para poder afirmar sobre ello.
type fakeNotifier struct {
	mu        sync.Mutex
	approvals []string // tokens encolados
	notices   []string // teléfonos avisados
}

func (f *fakeNotifier) EnqueueApproval(phone, token, visitorName, plates string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvals = append(f.approvals, token)
}

func (f *fakeNotifier) EnqueueNotice(phone, residentName, visitorName string, arrivalTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, phone)
}
