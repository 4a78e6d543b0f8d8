// Package whatsapp sends template and text messages through the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
)

const defaultErrorMessage = "Failed to send WhatsApp message"

type Client struct {
	httpClient *resty.Client
	cfg        config.WhatsAppConfig
}

type messageRequest struct {
	MessagingProduct string                 `json:"messaging_product"`
	To               string                 `json:"to"`
	Type             string                 `json:"type"`
	Template         *notification.Template `json:"template,omitempty"`
	Text             *textBody              `json:"text,omitempty"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type messageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func NewClient(cfg config.WhatsAppConfig) *Client {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		cfg:        cfg,
	}
}

// SendTemplateMessage sends a provider-registered template. Whether the
// template is actually registered is only known to the provider.
func (c *Client) SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error) {
	if err := notification.ValidatePhone(to); err != nil {
		return nil, err
	}
	if tmpl.Name == "" {
		return nil, errors.NewValidationError("template", "name is required")
	}

	return c.send(ctx, creds, messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template:         &tmpl,
	})
}

// SendTextMessage sends free-form text. The provider only accepts it inside the
// customer's engagement window.
func (c *Client) SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error) {
	if err := notification.ValidatePhone(to); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.NewValidationError("text", "is required")
	}

	return c.send(ctx, creds, messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textBody{PreviewURL: false, Body: text},
	})
}

func (c *Client) send(ctx context.Context, creds notification.Credentials, body messageRequest) (*notification.SendResult, error) {
	creds = c.resolve(creds)
	if creds.PhoneNumberID == "" || creds.AccessToken == "" {
		return nil, errors.NewValidationError("credentials", "phone number id and access token are required")
	}

	var result messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(creds.AccessToken).
		SetBody(body).
		SetResult(&result).
		SetError(&errorResponse{}).
		Post(c.cfg.MessagesURL(creds.PhoneNumberID))
	if err != nil {
		return nil, errors.NewDispatchError(0, 0, "", err)
	}

	if !resp.IsSuccess() {
		message, code := defaultErrorMessage, 0
		if e, ok := resp.Error().(*errorResponse); ok {
			code = e.Error.Code
			if e.Error.Message != "" {
				message = e.Error.Message
			}
		}
		return nil, errors.NewDispatchError(resp.StatusCode(), code, message, nil)
	}

	var messageID string
	if len(result.Messages) > 0 {
		messageID = result.Messages[0].ID
	}
	return &notification.SendResult{MessageID: messageID, Success: true}, nil
}

func (c *Client) resolve(creds notification.Credentials) notification.Credentials {
	if creds.PhoneNumberID == "" {
		creds.PhoneNumberID = c.cfg.PhoneNumberID
	}
	if creds.AccessToken == "" {
		creds.AccessToken = c.cfg.AccessToken
	}
	return creds
}
