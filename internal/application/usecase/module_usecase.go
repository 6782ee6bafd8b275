package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/libreria-api/internal/application/ports"
)

// Integraciones que pueden activarse desde la configuración.
const (
	IntegrationAbeBooks     = "abebooks"
	IntegrationAbeBooksFeed = "abebooks_feed"
	IntegrationUniliber     = "uniliber"
)

// ModuleService verifica qué integraciones externas están activas.
// Es el único punto de la aplicación que interpreta los flags de integrations.
type ModuleService struct {
	settings ports.SettingsProvider
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(settings ports.SettingsProvider) *ModuleService {
	return &ModuleService{settings: settings}
}

// HasActiveModule informa si la integración está activada.
// Devuelve error solo ante fallos de infraestructura o nombres desconocidos.
func (s *ModuleService) HasActiveModule(ctx context.Context, moduleName string) (bool, error) {
	if moduleName == "" {
		return false, fmt.Errorf("module: moduleName es obligatorio")
	}
	cfg, err := s.settings.Integrations(ctx)
	if err != nil {
		return false, err
	}
	switch moduleName {
	case IntegrationAbeBooks:
		return cfg.AbeBooks.Enabled, nil
	case IntegrationAbeBooksFeed:
		return cfg.AbeBooks.Enabled && cfg.AbeBooks.FTPS.Enabled, nil
	case IntegrationUniliber:
		return cfg.Uniliber.Enabled, nil
	}
	return false, fmt.Errorf("module: integración desconocida %q", moduleName)
}
