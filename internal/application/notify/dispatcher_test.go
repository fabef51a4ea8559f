package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// gatewayRecorder acumula los envíos que recibe; ok controla el resultado
// reportado, para simular un canal de WhatsApp caído.
type gatewayRecorder struct {
	mu        sync.Mutex
	ok        bool
	approvals []string
	notices   []string
}

func (g *gatewayRecorder) SendApproval(phone, token, visitorName, plates string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.approvals = append(g.approvals, token)
	return g.ok
}

func (g *gatewayRecorder) SendPreRegistrationNotice(phone, residentName, visitorName string, arrivalTime time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notices = append(g.notices, phone)
	return g.ok
}

func (g *gatewayRecorder) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.approvals), len(g.notices)
}

// Los trabajos encolados antes de Shutdown se entregan todos: Shutdown drena la
// cola en vez de tirarla.
func TestDispatcher_EntregaYDrenaEnShutdown(t *testing.T) {
	gw := &gatewayRecorder{ok: true}
	d := NewDispatcher(gw, logger.Nop(), 16)
	d.Start(2)

	d.EnqueueApproval("+521555", "token-1", "Juan", "ABC123")
	d.EnqueueApproval("+521555", "token-2", "Ana", "XYZ999")
	d.EnqueueNotice("+521777", "Residente", "Juan", time.Now())

	d.Shutdown()

	approvals, notices := gw.counts()
	assert.Equal(t, 2, approvals, "ambas aprobaciones deben entregarse")
	assert.Equal(t, 1, notices, "el aviso debe entregarse")
}

// Con la cola llena y sin workers, encolar no bloquea: el trabajo extra se
// descarta en silencio (best-effort).
func TestDispatcher_ColaLlenaNoBloquea(t *testing.T) {
	gw := &gatewayRecorder{ok: true}
	d := NewDispatcher(gw, logger.Nop(), 1)
	// Sin Start: nadie consume, la cola de 1 se llena con el primer trabajo.

	done := make(chan struct{})
	go func() {
		d.EnqueueApproval("+521555", "token-1", "Juan", "ABC123")
		d.EnqueueApproval("+521555", "token-2", "Ana", "XYZ999") // descartado
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("encolar con la cola llena no debe bloquear")
	}

	d.Start(1)
	d.Shutdown()

	approvals, _ := gw.counts()
	assert.Equal(t, 1, approvals, "solo el trabajo que cupo en la cola se entrega")
}

// Un gateway que falla en todo no interrumpe al dispatcher: los fallos se
// loguean y los siguientes trabajos siguen fluyendo.
func TestDispatcher_GatewayFallidoNoDetieneWorkers(t *testing.T) {
	gw := &gatewayRecorder{ok: false}
	d := NewDispatcher(gw, logger.Nop(), 16)
	d.Start(1)

	for i := 0; i < 5; i++ {
		d.EnqueueNotice("+521777", "Residente", "Visitante", time.Now())
	}
	d.Shutdown()

	_, notices := gw.counts()
	require.Equal(t, 5, notices, "todos los intentos deben llegar al gateway aunque fallen")
}

func TestNewDispatcher_BufferPorDefecto(t *testing.T) {
	d := NewDispatcher(&gatewayRecorder{ok: true}, logger.Nop(), 0)
	assert.Equal(t, 64, cap(d.jobs))
}
