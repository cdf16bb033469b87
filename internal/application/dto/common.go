package dto

// PageRequest paginación por número de página para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica los valores por defecto: page >= 1, limit por defecto y acotado a maxLimit.
func (p PageRequest) Normalize(defaultLimit, maxLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset desplazamiento SQL de la página (requiere Normalize previo).
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageLimits límites de paginación configurados (PAGINATION_DEFAULT_LIMIT / PAGINATION_MAX_LIMIT).
type PageLimits struct {
	Default int
	Max     int
}

// Apply normaliza la página con estos límites.
func (l PageLimits) Apply(p PageRequest) PageRequest {
	return p.Normalize(l.Default, l.Max)
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPageResponse calcula los metadatos: totalPages = max(1, ceil(total/limit)).
func NewPageResponse(p PageRequest, total int) PageResponse {
	totalPages := 1
	if p.Limit > 0 && total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return PageResponse{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageResponse respuesta con mensaje legible y un recurso.
type MessageResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
