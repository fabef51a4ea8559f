package notify

import (
	"sync"
	"time"

	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

const (
	jobApproval = "approval"
	jobNotice   = "notice"
)

type job struct {
	kind         string
	phone        string
	token        string
	visitorName  string
	plates       string
	residentName string
	arrivalTime  time.Time
}

// Compile-time: Dispatcher satisface el puerto de los casos de uso.
var _ access.Notifier = (*Dispatcher)(nil)

// Dispatcher entrega notificaciones en segundo plano mediante una cola en memoria
// y workers dedicados. Encolar nunca bloquea: con la cola llena el trabajo se
// descarta con warning, el canal es best-effort por contrato.
//
// Separar el envío en un worker deja un punto único donde añadir retry/backoff
// más adelante sin tocar los casos de uso.
type Dispatcher struct {
	gateway access.NotificationGateway
	jobs    chan job
	wg      sync.WaitGroup
	log     *logger.Logger
}

// NewDispatcher construye el dispatcher con una cola de tamaño buffer.
func NewDispatcher(gateway access.NotificationGateway, log *logger.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		gateway: gateway,
		jobs:    make(chan job, buffer),
		log:     log,
	}
}

// Start arranca los workers de entrega.
func (d *Dispatcher) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Shutdown cierra la cola y espera a que los workers terminen los trabajos en
// vuelo. No encolar después de llamar Shutdown.
func (d *Dispatcher) Shutdown() {
	close(d.jobs)
	d.wg.Wait()
}

// EnqueueApproval encola el mensaje de aprobación con el enlace del token.
func (d *Dispatcher) EnqueueApproval(phone, token, visitorName, plates string) {
	d.enqueue(job{
		kind:        jobApproval,
		phone:       phone,
		token:       token,
		visitorName: visitorName,
		plates:      plates,
	})
}

// EnqueueNotice encola el aviso de visita esperada al residente.
func (d *Dispatcher) EnqueueNotice(phone, residentName, visitorName string, arrivalTime time.Time) {
	d.enqueue(job{
		kind:         jobNotice,
		phone:        phone,
		residentName: residentName,
		visitorName:  visitorName,
		arrivalTime:  arrivalTime,
	})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		d.log.Warn().Str("tipo", j.kind).Str("telefono", j.phone).Msg("cola de notificaciones llena, trabajo descartado")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		var ok bool
		switch j.kind {
		case jobApproval:
			ok = d.gateway.SendApproval(j.phone, j.token, j.visitorName, j.plates)
		case jobNotice:
			ok = d.gateway.SendPreRegistrationNotice(j.phone, j.residentName, j.visitorName, j.arrivalTime)
		}
		if !ok {
			d.log.Warn().Str("tipo", j.kind).Str("telefono", j.phone).Msg("notificación no entregada")
		}
	}
}
