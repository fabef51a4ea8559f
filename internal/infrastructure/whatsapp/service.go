package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/pkg/config"
	"github.com/tu-usuario/acceso-residencial/pkg/logger"
)

// Verificar en tiempo de compilación que Service implementa NotificationGateway.
var _ access.NotificationGateway = (*Service)(nil)

// Service adaptador del canal WhatsApp sobre un proveedor HTTP tipo Cloud API.
// Cumple el contrato del gateway: los fallos ordinarios de entrega devuelven false
// y se loguean, nunca se propagan como error al negocio.
//
// Si apiURL está vacío el servicio queda deshabilitado: todo envío reporta false.
type Service struct {
	apiURL      string
	apiToken    string
	linkBaseURL string
	httpClient  *http.Client
	log         *logger.Logger
}

// NewService construye el adaptador desde la configuración.
func NewService(cfg config.WhatsAppConfig, log *logger.Logger) *Service {
	return &Service{
		apiURL:      cfg.APIURL,
		apiToken:    cfg.APIToken,
		linkBaseURL: cfg.LinkBaseURL,
		httpClient: &http.Client{
			// Timeout de red generoso: el envío corre en workers, nunca en el
			// camino de una petición HTTP entrante.
			Timeout: 25 * time.Second,
		},
		log: log,
	}
}

type outboundMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendApproval envía al residente el mensaje con el enlace de aprobación.
func (s *Service) SendApproval(phone, token, visitorName, plates string) bool {
	if visitorName == "" {
		visitorName = "Un visitante"
	}
	body := fmt.Sprintf(
		"%s solicita acceso con el vehículo de placas %s. Aprueba la visita aquí: %s/api/intake/approve/%s",
		visitorName, plates, s.linkBaseURL, token,
	)
	return s.send(phone, body)
}

// SendPreRegistrationNotice avisa al residente de una visita esperada ya confirmada.
func (s *Service) SendPreRegistrationNotice(phone, residentName, visitorName string, arrivalTime time.Time) bool {
	if residentName == "" {
		residentName = "Hola"
	}
	body := fmt.Sprintf(
		"%s, se registró una visita de %s con llegada estimada el %s.",
		residentName, visitorName, arrivalTime.Format("02/01/2006 15:04"),
	)
	return s.send(phone, body)
}

func (s *Service) send(phone, body string) bool {
	if s.apiURL == "" {
		s.log.Debug().Str("telefono", phone).Msg("gateway WhatsApp deshabilitado, mensaje no enviado")
		return false
	}
	if phone == "" {
		s.log.Warn().Msg("mensaje WhatsApp sin teléfono destino")
		return false
	}

	payload, err := json.Marshal(outboundMessage{To: phone, Body: body})
	if err != nil {
		s.log.Error().Err(err).Msg("serializar mensaje WhatsApp")
		return false
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		s.log.Error().Err(err).Msg("construir petición WhatsApp")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("telefono", phone).Msg("envío WhatsApp falló")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn().Int("status", resp.StatusCode).Str("telefono", phone).Msg("proveedor WhatsApp respondió error")
		return false
	}
	return true
}
