package upstream

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"neohealth/internal/domain"
)

// Client implementa los colaboradores de auth, registros, predicciones y datasets
// contra el backend de salud via HTTP.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient construye el cliente apuntando a la API del backend (ej. http://localhost:5000/api).
// Solo los GET se reintentan; los POST nunca, para no duplicar envios.
func NewClient(baseURL string, timeout time.Duration, readRetries int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if readRetries < 0 {
		readRetries = 0
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(readRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryReads).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, logger: logger}
}

func retryReads(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return resp.Request.Context().Err() == nil
	}
	return resp.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) request(ctx context.Context, session *domain.Session) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if session != nil && session.Token != "" {
		req.SetAuthToken(session.Token)
	}
	return req
}

func (c *Client) get(ctx context.Context, session *domain.Session, op, path string, out any) error {
	resp, err := c.request(ctx, session).Get(path)
	return c.decode(op, resp, err, out)
}

func (c *Client) post(ctx context.Context, session *domain.Session, op, path string, body, out any) error {
	resp, err := c.request(ctx, session).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.decode(op, resp, err, out)
}

func (c *Client) decode(op string, resp *resty.Response, err error, out any) error {
	if err := classify(op, resp, err); err != nil {
		c.logger.Warn("upstream call failed", zap.String("op", op), zap.Error(err))
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &domain.TransportError{
			Op:      op,
			Kind:    domain.KindServer,
			Status:  resp.StatusCode(),
			Message: "malformed response body",
			Err:     err,
		}
	}
	return nil
}

// classify traduce la respuesta del backend a la taxonomia de errores del dominio.
func classify(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &domain.TransportError{Op: op, Kind: domain.KindUnreachable, Err: err}
	}
	if resp == nil {
		return &domain.TransportError{Op: op, Kind: domain.KindUnreachable, Message: "no response"}
	}
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}

	msg := errorMessage(resp.Body())
	te := &domain.TransportError{Op: op, Status: status, Message: msg}
	switch {
	case status == http.StatusUnauthorized:
		te.Kind = domain.KindUnauthorized
		reason := msg
		if reason == "" {
			reason = "session expired"
		}
		return &domain.AuthError{Reason: reason, Err: te}
	case status == http.StatusForbidden:
		te.Kind = domain.KindUnauthorized
	case status == http.StatusNotFound:
		te.Kind = domain.KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		te.Kind = domain.KindInvalidInput
	default:
		te.Kind = domain.KindServer
	}
	return te
}

type errorBody struct {
	Msg   string `json:"msg"`
	Error string `json:"error"`
}

// errorMessage extrae "msg" o, en su defecto, "error" del cuerpo.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if m := strings.TrimSpace(eb.Msg); m != "" {
		return m
	}
	return strings.TrimSpace(eb.Error)
}
