// Package isbn adaptadores de catálogos bibliográficos externos: Google Books,
// OpenLibrary y el SRU de la Biblioteca Nacional de España.
package isbn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const maxBody = 512 * 1024

// Etiquetas de soporte que los catálogos añaden al título.
var formatTags = regexp.MustCompile(`(?i)\s*\[(texto impreso|recurso electrónico|libro electrónico|material gráfico|grabación sonora|videograbación|música impresa|manuscrito|microforma|objeto|cartografía)\]`)

// CleanTitle quita las etiquetas de soporte y los dos puntos finales.
func CleanTitle(title string) string {
	t := formatTags.ReplaceAllString(title, "")
	t = strings.TrimSpace(t)
	t = strings.TrimSpace(strings.TrimSuffix(t, ":"))
	return t
}

func fullTitle(title, subtitle string) string {
	if subtitle != "" {
		return title + ": " + subtitle
	}
	return title
}

// httpSource base común: cliente con timeout y URL base sustituible en tests.
type httpSource struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func newHTTPSource(name, baseURL string, timeout time.Duration) httpSource {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return httpSource{name: name, baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}
}

// get devuelve (nil, nil) con 404: la fuente no conoce el recurso.
func (s httpSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: crear HTTP request: %w", s.name, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: timeout o cancelación: %w", s.name, ctx.Err())
		}
		return nil, fmt.Errorf("%s: llamada HTTP fallida: %w", s.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: leer respuesta: %w", s.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: HTTP %d", s.name, resp.StatusCode)
	}
	return body, nil
}
